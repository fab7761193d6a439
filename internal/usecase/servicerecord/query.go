package servicerecord

import (
	"context"

	"github.com/google/uuid"

	apdomain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/servicerecord"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/dto"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// ======================================================
// GET
// ======================================================

type GetServiceRecord struct {
	gw *store.Gateway
}

func NewGetServiceRecord(gw *store.Gateway) *GetServiceRecord {
	return &GetServiceRecord{gw: gw}
}

// Execute devolve o atendimento com itens e colaboradores. O total vem do
// registro, não do catálogo atual.
func (uc *GetServiceRecord) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	recordID uuid.UUID,
) (*dto.ServiceRecordDetail, error) {

	rec, _, err := loadRecord(ctx, uc.gw, establishmentID, recordID)
	if err != nil {
		return nil, err
	}

	lines, err := uc.gw.RecordServices.Select(ctx, store.Where(store.Eq("service_record_id", rec.ID)).
		OrderBy(store.Asc("created_at")))
	if err != nil {
		return nil, httperr.Store("failed_to_load_service_lines", err)
	}
	assignments, err := uc.gw.RecordStaff.Select(ctx, store.Where(store.Eq("service_record_id", rec.ID)).
		OrderBy(store.Asc("created_at")))
	if err != nil {
		return nil, httperr.Store("failed_to_load_staff_assignments", err)
	}

	serviceIDs := idsOf(lines, func(l *models.ServiceRecordService) uuid.UUID { return l.ServiceID })
	staffIDs := idsOf(assignments, func(a *models.ServiceRecordStaff) uuid.UUID { return a.StaffID })

	services := map[uuid.UUID]models.Service{}
	if len(serviceIDs) > 0 {
		rows, err := uc.gw.Services.Select(ctx, store.Where(store.In("id", dedupe(serviceIDs))))
		if err != nil {
			return nil, httperr.Store("failed_to_load_services", err)
		}
		for _, s := range rows {
			services[s.ID] = s
		}
	}

	staff := map[uuid.UUID]models.Staff{}
	if len(staffIDs) > 0 {
		rows, err := uc.gw.Staff.Select(ctx, store.Where(store.In("id", dedupe(staffIDs))))
		if err != nil {
			return nil, httperr.Store("failed_to_load_staff", err)
		}
		for _, s := range rows {
			staff[s.ID] = s
		}
	}

	out := &dto.ServiceRecordDetail{
		ServiceRecord: *rec,
		Services:      make([]dto.ServiceLineDTO, 0, len(lines)),
		Staff:         make([]dto.StaffAssignmentDTO, 0, len(assignments)),
	}
	for _, l := range lines {
		out.Services = append(out.Services, dto.ServiceLineDTO{
			ID:        l.ID,
			ServiceID: l.ServiceID,
			Name:      services[l.ServiceID].Name,
			Price:     l.Price,
		})
	}
	for _, a := range assignments {
		s := staff[a.StaffID]
		out.Staff = append(out.Staff, dto.StaffAssignmentDTO{
			StaffID:  a.StaffID,
			Name:     s.Name,
			PhotoURL: s.PhotoURL,
		})
	}

	return out, nil
}

// ======================================================
// LIST
// ======================================================

type ListFilter struct {
	From   string
	To     string
	Status string
	Client string
}

type ListServiceRecords struct {
	gw *store.Gateway
}

func NewListServiceRecords(gw *store.Gateway) *ListServiceRecords {
	return &ListServiceRecords{gw: gw}
}

func (uc *ListServiceRecords) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	f ListFilter,
) ([]models.ServiceRecord, error) {

	filters := []store.Filter{store.Eq("establishment_id", establishmentID)}

	if f.From != "" {
		d, err := apdomain.ParseDate(f.From)
		if err != nil {
			return nil, err
		}
		filters = append(filters, store.Gte("service_date", d.Format(apdomain.DateLayout)))
	}
	if f.To != "" {
		d, err := apdomain.ParseDate(f.To)
		if err != nil {
			return nil, err
		}
		filters = append(filters, store.Lte("service_date", d.Format(apdomain.DateLayout)))
	}
	if f.Status != "" {
		st, err := domain.ParseStatus(f.Status)
		if err != nil {
			return nil, err
		}
		filters = append(filters, store.Eq("status", string(st)))
	}
	if f.Client != "" {
		filters = append(filters, store.ILike("client_name", f.Client))
	}

	rows, err := uc.gw.ServiceRecords.Select(ctx, store.Where(filters...).
		OrderBy(store.Desc("service_date"), store.Desc("start_time")))
	if err != nil {
		return nil, httperr.Store("failed_to_list_service_records", err)
	}
	if rows == nil {
		rows = []models.ServiceRecord{}
	}
	return rows, nil
}

// ======================================================
// BY APPOINTMENT
// ======================================================

// FindByAppointment devolve o atendimento não cancelado do agendamento,
// ou nil.
func FindByAppointment(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.ServiceRecord, error) {
	rec, err := gw.ServiceRecords.First(ctx, store.Where(
		store.Eq("establishment_id", establishmentID),
		store.Eq("appointment_id", appointmentID),
		store.Neq("status", string(domain.StatusCancelled)),
	))
	if err != nil {
		return nil, httperr.Store("failed_to_load_service_record", err)
	}
	return rec, nil
}
