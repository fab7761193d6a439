package servicerecord

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/servicerecord"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/saga"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// ======================================================
// INPUT
// ======================================================

type ConvertInput struct {
	ServiceIDs []uuid.UUID
	StaffIDs   []uuid.UUID
	Notes      string
}

// ======================================================
// USE CASE
// ======================================================

// ConvertAppointment transforma um agendamento em atendimento em andamento.
type ConvertAppointment struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
	log   *zap.Logger
}

func NewConvertAppointment(
	gw *store.Gateway,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *ConvertAppointment {
	return &ConvertAppointment{
		gw:    gw,
		audit: audit,
		log:   logger.OrNop(log),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ConvertAppointment) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	appointmentID uuid.UUID,
	in ConvertInput,
) (*models.ServiceRecord, error) {

	// --------------------------------------------------
	// 1️⃣ Agendamento precisa estar agendado
	// --------------------------------------------------
	ap, err := loadAppointment(ctx, uc.gw, establishmentID, appointmentID)
	if err != nil {
		return nil, err
	}

	apStatus, err := apdomain.ParseStatus(ap.Status)
	if err != nil {
		return nil, err
	}
	nextStatus, err := apdomain.Next(apStatus, apdomain.ActionStart)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Só um atendimento ativo por agendamento
	// --------------------------------------------------
	active, err := store.Exists(ctx, uc.gw.ServiceRecords,
		store.Eq("establishment_id", establishmentID),
		store.Eq("appointment_id", ap.ID),
		store.Neq("status", string(domain.StatusCancelled)),
	)
	if err != nil {
		return nil, httperr.Store("failed_to_check_conversion", err)
	}
	if active {
		return nil, httperr.ConversionExists("appointment_already_converted")
	}

	// --------------------------------------------------
	// 3️⃣ Serviços e colaboradores (principal primeiro)
	// --------------------------------------------------
	serviceIDs := withPrimary(ap.ServiceID, in.ServiceIDs)
	staffIDs := withPrimary(ap.StaffID, in.StaffIDs)

	if err := ensureStaff(ctx, uc.gw, establishmentID, staffIDs); err != nil {
		return nil, err
	}

	rec := &models.ServiceRecord{
		EstablishmentID: establishmentID,
		AppointmentID:   &ap.ID,
		ClientName:      ap.ClientName,
		ClientPhone:     ap.ClientPhone,
		ClientEmail:     ap.ClientEmail,
		ServiceDate:     ap.AppointmentDate,
		StartTime:       ap.StartTime,
		Status:          string(domain.StatusInProgress),
		Notes:           in.Notes,
		Origin:          string(domain.OriginAppointment),
	}
	rec.EnsureID()

	items, err := snapshotPrices(ctx, uc.gw, establishmentID, rec.ID, serviceIDs, nil)
	if err != nil {
		return nil, err
	}
	rec.TotalValue = domain.Total(items)
	assignments := staffRows(rec.ID, staffIDs)

	// --------------------------------------------------
	// 4️⃣ Gravação em saga (desfaz na ordem inversa)
	// --------------------------------------------------
	s := saga.New("convert_appointment", uc.log).
		Add("insert_service_record",
			func(ctx context.Context) error {
				return uc.gw.ServiceRecords.Insert(ctx, rec)
			},
			func(ctx context.Context) error {
				_, err := uc.gw.ServiceRecords.Delete(ctx, store.Eq("id", rec.ID))
				return err
			},
		).
		Add("insert_services",
			func(ctx context.Context) error {
				return uc.gw.RecordServices.Insert(ctx, ptrs(items)...)
			},
			func(ctx context.Context) error {
				_, err := uc.gw.RecordServices.Delete(ctx, store.Eq("service_record_id", rec.ID))
				return err
			},
		).
		Add("insert_staff",
			func(ctx context.Context) error {
				return uc.gw.RecordStaff.Insert(ctx, ptrs(assignments)...)
			},
			func(ctx context.Context) error {
				_, err := uc.gw.RecordStaff.Delete(ctx, store.Eq("service_record_id", rec.ID))
				return err
			},
		).
		Add("start_appointment",
			func(ctx context.Context) error {
				return setAppointmentStatus(ctx, uc.gw, establishmentID, ap.ID, string(nextStatus))
			},
			func(ctx context.Context) error {
				return setAppointmentStatus(ctx, uc.gw, establishmentID, ap.ID, ap.Status)
			},
		)

	if err := s.Run(ctx); err != nil {
		return nil, sagaError("failed_to_convert_appointment", err)
	}

	// --------------------------------------------------
	// 5️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "appointment_converted",
		Entity:          "service_record",
		EntityID:        &rec.ID,
		Metadata:        map[string]any{"appointment_id": ap.ID, "services": len(items), "staff": len(assignments)},
	})

	return rec, nil
}

func setAppointmentStatus(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	appointmentID uuid.UUID,
	status string,
) error {
	_, err := gw.Appointments.Update(ctx,
		map[string]any{"status": status},
		store.Eq("id", appointmentID),
		store.Eq("establishment_id", establishmentID),
	)
	return err
}
