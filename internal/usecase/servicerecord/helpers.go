package servicerecord

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/servicerecord"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

func loadRecord(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	id uuid.UUID,
) (*models.ServiceRecord, domain.Status, error) {
	rec, err := gw.ServiceRecords.First(ctx, store.Where(
		store.Eq("id", id),
		store.Eq("establishment_id", establishmentID),
	))
	if err != nil {
		return nil, "", httperr.Store("failed_to_load_service_record", err)
	}
	if rec == nil {
		return nil, "", httperr.NotFoundErr("service_record_not_found")
	}

	status, err := domain.ParseStatus(rec.Status)
	if err != nil {
		return nil, "", err
	}
	return rec, status, nil
}

func loadAppointment(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {
	ap, err := gw.Appointments.First(ctx, store.Where(
		store.Eq("id", id),
		store.Eq("establishment_id", establishmentID),
	))
	if err != nil {
		return nil, httperr.Store("failed_to_load_appointment", err)
	}
	if ap == nil {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}
	return ap, nil
}

// snapshotPrices monta um item por id com o preço do catálogo agora.
// keep traz preços já congelados que devem ser mantidos por serviço.
func snapshotPrices(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	recordID uuid.UUID,
	serviceIDs []uuid.UUID,
	keep map[uuid.UUID]decimal.Decimal,
) ([]models.ServiceRecordService, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	services, err := gw.Services.Select(ctx, store.Where(
		store.Eq("establishment_id", establishmentID),
		store.In("id", serviceIDs),
	))
	if err != nil {
		return nil, httperr.Store("failed_to_load_services", err)
	}

	catalog := make(map[uuid.UUID]*models.Service, len(services))
	for i := range services {
		catalog[services[i].ID] = &services[i]
	}

	items := make([]models.ServiceRecordService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		svc, ok := catalog[id]
		if !ok {
			return nil, httperr.NotFoundErr("service_not_found")
		}

		price := domain.PriceOf(svc)
		if old, ok := keep[id]; ok {
			price = old
		}

		items = append(items, models.ServiceRecordService{
			ServiceRecordID: recordID,
			ServiceID:       id,
			Price:           price,
		})
	}
	return items, nil
}

func ensureStaff(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	staffIDs []uuid.UUID,
) error {
	if len(staffIDs) == 0 {
		return nil
	}
	n, err := gw.Staff.Count(ctx,
		store.Eq("establishment_id", establishmentID),
		store.In("id", staffIDs),
	)
	if err != nil {
		return httperr.Store("failed_to_load_staff", err)
	}
	if int(n) != len(staffIDs) {
		return httperr.NotFoundErr("staff_not_found")
	}
	return nil
}

func staffRows(recordID uuid.UUID, staffIDs []uuid.UUID) []models.ServiceRecordStaff {
	rows := make([]models.ServiceRecordStaff, 0, len(staffIDs))
	for _, id := range staffIDs {
		rows = append(rows, models.ServiceRecordStaff{ServiceRecordID: recordID, StaffID: id})
	}
	return rows
}

// ptrs devolve ponteiros para os elementos, no formato que Insert espera.
func ptrs[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

func idsOf[T any](rows []T, id func(*T) uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(rows))
	for i := range rows {
		out[i] = id(&rows[i])
	}
	return out
}

// withPrimary coloca primary na frente da lista, sem repetir.
func withPrimary(primary *uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids)+1)
	seen := map[uuid.UUID]struct{}{}
	if primary != nil && *primary != uuid.Nil {
		out = append(out, *primary)
		seen[*primary] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	return withPrimary(nil, ids)
}

func recordScope(establishmentID, recordID uuid.UUID) []store.Filter {
	return []store.Filter{
		store.Eq("id", recordID),
		store.Eq("establishment_id", establishmentID),
	}
}

// sagaError preserva erros de negócio vindos de um passo e trata o resto
// como falha do banco.
func sagaError(code string, err error) error {
	if store.IsUniqueViolation(err) {
		return httperr.Conflict("slot_taken")
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}
	return httperr.Store(code, err)
}
