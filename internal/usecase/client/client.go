package client

import (
	"context"

	"github.com/google/uuid"

	apdomain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/client"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type Filter struct {
	Query string
	From  string
	To    string
	// YYYY-MM; tem precedência sobre From/To
	Month string
}

// ListClients projeta os clientes a partir dos atendimentos e agendamentos.
// Não existe tabela de clientes.
type ListClients struct {
	gw *store.Gateway
}

func NewListClients(gw *store.Gateway) *ListClients {
	return &ListClients{gw: gw}
}

func (uc *ListClients) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	f Filter,
) ([]domain.Client, error) {

	from, to, err := dateRange(f)
	if err != nil {
		return nil, err
	}

	recordFilters := []store.Filter{store.Eq("establishment_id", establishmentID)}
	apFilters := []store.Filter{store.Eq("establishment_id", establishmentID)}
	if from != "" {
		recordFilters = append(recordFilters, store.Gte("service_date", from))
		apFilters = append(apFilters, store.Gte("appointment_date", from))
	}
	if to != "" {
		recordFilters = append(recordFilters, store.Lte("service_date", to))
		apFilters = append(apFilters, store.Lte("appointment_date", to))
	}

	records, err := uc.gw.ServiceRecords.Select(ctx, store.Where(recordFilters...))
	if err != nil {
		return nil, httperr.Store("failed_to_list_service_records", err)
	}
	appointments, err := uc.gw.Appointments.Select(ctx, store.Where(apFilters...))
	if err != nil {
		return nil, httperr.Store("failed_to_list_appointments", err)
	}

	list := domain.Filter(domain.Aggregate(records, appointments), f.Query)
	if list == nil {
		list = []domain.Client{}
	}
	return list, nil
}

// Stats resume a mesma projeção, sem filtro de busca.
func (uc *ListClients) Stats(
	ctx context.Context,
	establishmentID uuid.UUID,
	f Filter,
) (domain.Stats, error) {
	f.Query = ""
	list, err := uc.Execute(ctx, establishmentID, f)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Summarize(list), nil
}

func dateRange(f Filter) (string, string, error) {
	if f.Month != "" {
		return apdomain.MonthRange(f.Month)
	}

	var from, to string
	if f.From != "" {
		d, err := apdomain.ParseDate(f.From)
		if err != nil {
			return "", "", err
		}
		from = d.Format(apdomain.DateLayout)
	}
	if f.To != "" {
		d, err := apdomain.ParseDate(f.To)
		if err != nil {
			return "", "", err
		}
		to = d.Format(apdomain.DateLayout)
	}
	if from != "" && to != "" && from > to {
		return "", "", httperr.Validation("invalid_date_range")
	}
	return from, to, nil
}
