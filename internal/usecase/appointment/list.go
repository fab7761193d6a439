package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/dto"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/timezone"
)

// ======================================================
// BY DATE
// ======================================================

type ListAppointmentsByDate struct {
	gw *store.Gateway
}

func NewListAppointmentsByDate(gw *store.Gateway) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{gw: gw}
}

// Execute lista o dia informado; data vazia usa "hoje" no fuso do
// estabelecimento.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	date string,
	staffID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {

	if date == "" {
		est, err := uc.gw.Establishments.First(ctx, store.Where(store.Eq("id", establishmentID)))
		if err != nil {
			return nil, httperr.Store("failed_to_load_establishment", err)
		}
		tz := ""
		if est != nil {
			tz = est.Timezone
		}
		date = timezone.Today(tz)
	}

	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	day := d.Format(domain.DateLayout)

	return listRange(ctx, uc.gw, establishmentID, day, day, staffID)
}

// ======================================================
// BY MONTH
// ======================================================

type ListAppointmentsByMonth struct {
	gw *store.Gateway
}

func NewListAppointmentsByMonth(gw *store.Gateway) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{gw: gw}
}

// Execute recebe o mês como YYYY-MM.
func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	month string,
	staffID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {

	first, last, err := domain.MonthRange(month)
	if err != nil {
		return nil, err
	}

	return listRange(ctx, uc.gw, establishmentID, first, last, staffID)
}

// ======================================================
// HELPERS
// ======================================================

func listRange(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	from, to string,
	staffID *uuid.UUID,
) ([]dto.AppointmentListDTO, error) {

	filters := []store.Filter{
		store.Eq("establishment_id", establishmentID),
		store.Gte("appointment_date", from),
		store.Lte("appointment_date", to),
	}
	if staffID != nil {
		filters = append(filters, store.Eq("staff_id", *staffID))
	}

	aps, err := gw.Appointments.Select(ctx, store.Where(filters...).
		OrderBy(store.Asc("appointment_date"), store.Asc("start_time")))
	if err != nil {
		return nil, httperr.Store("failed_to_list_appointments", err)
	}

	return enrich(ctx, gw, establishmentID, aps)
}

func enrich(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	aps []models.Appointment,
) ([]dto.AppointmentListDTO, error) {

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	if len(aps) == 0 {
		return out, nil
	}

	var serviceIDs, staffIDs, apIDs []uuid.UUID
	for _, ap := range aps {
		apIDs = append(apIDs, ap.ID)
		if ap.ServiceID != nil {
			serviceIDs = append(serviceIDs, *ap.ServiceID)
		}
		if ap.StaffID != nil {
			staffIDs = append(staffIDs, *ap.StaffID)
		}
	}

	serviceNames := map[uuid.UUID]string{}
	if len(serviceIDs) > 0 {
		rows, err := gw.Services.Select(ctx, store.Where(
			store.Eq("establishment_id", establishmentID),
			store.In("id", uniqueIDs(serviceIDs)),
		))
		if err != nil {
			return nil, httperr.Store("failed_to_load_services", err)
		}
		for _, s := range rows {
			serviceNames[s.ID] = s.Name
		}
	}

	staffNames := map[uuid.UUID]string{}
	if len(staffIDs) > 0 {
		rows, err := gw.Staff.Select(ctx, store.Where(
			store.Eq("establishment_id", establishmentID),
			store.In("id", uniqueIDs(staffIDs)),
		))
		if err != nil {
			return nil, httperr.Store("failed_to_load_staff", err)
		}
		for _, s := range rows {
			staffNames[s.ID] = s.Name
		}
	}

	records, err := gw.ServiceRecords.Select(ctx, store.Where(
		store.Eq("establishment_id", establishmentID),
		store.In("appointment_id", apIDs),
		store.Neq("status", "cancelado"),
	))
	if err != nil {
		return nil, httperr.Store("failed_to_load_service_records", err)
	}
	recordByAppointment := map[uuid.UUID]uuid.UUID{}
	for _, r := range records {
		if r.AppointmentID != nil {
			recordByAppointment[*r.AppointmentID] = r.ID
		}
	}

	for _, ap := range aps {
		item := dto.AppointmentListDTO{
			ID:          ap.ID,
			Date:        ap.AppointmentDate,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			ClientName:  ap.ClientName,
			ClientPhone: ap.ClientPhone,
			ServiceID:   ap.ServiceID,
			StaffID:     ap.StaffID,
			Notes:       ap.Notes,
		}
		if ap.ServiceID != nil {
			item.ServiceName = serviceNames[*ap.ServiceID]
		}
		if ap.StaffID != nil {
			item.StaffName = staffNames[*ap.StaffID]
		}
		if id, ok := recordByAppointment[ap.ID]; ok {
			item.ServiceRecordID = &id
		}
		out = append(out, item)
	}

	return out, nil
}
