package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/lock"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	gw       *store.Gateway
	conflict *ConflictDetector
	locker   lock.Locker
	audit    *audit.Dispatcher
	log      *zap.Logger
}

func NewCreateAppointment(
	gw *store.Gateway,
	locker lock.Locker,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *CreateAppointment {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &CreateAppointment{
		gw:       gw,
		conflict: NewConflictDetector(gw.Appointments),
		locker:   locker,
		audit:    audit,
		log:      logger.OrNop(log),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	in AppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Campos obrigatórios / horário
	// --------------------------------------------------
	s, err := in.validate()
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Serviço e colaborador do estabelecimento
	// --------------------------------------------------
	staffID := in.staff()
	if err := ensureReferences(ctx, uc.gw, establishmentID, in.ServiceIDs, staffID); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		EstablishmentID: establishmentID,
		ClientName:      strings.TrimSpace(in.ClientName),
		ClientPhone:     strings.TrimSpace(in.ClientPhone),
		ClientEmail:     strings.TrimSpace(in.ClientEmail),
		AppointmentDate: s.Date,
		StartTime:       s.Start,
		EndTime:         s.End,
		ServiceID:       in.primaryService(),
		StaffID:         staffID,
		Notes:           in.Notes,
		Status:          string(domain.InitialStatus()),
	}

	// --------------------------------------------------
	// 3️⃣ Conflito + gravação sob lock do horário
	// --------------------------------------------------
	err = withSlotLock(ctx, uc.locker, establishmentID, s, staffID, func(ctx context.Context) error {
		taken, err := uc.conflict.HasConflict(ctx, establishmentID, s.Date, s.Start, staffID, nil)
		if err != nil {
			return err
		}
		if taken {
			return httperr.Conflict("slot_taken")
		}

		if err := uc.gw.Appointments.Insert(ctx, ap); err != nil {
			if store.IsUniqueViolation(err) {
				return httperr.Conflict("slot_taken")
			}
			return httperr.Store("failed_to_create_appointment", err)
		}
		return nil
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindConflict) {
			uc.log.Info("appointment conflict",
				zap.String("date", s.Date),
				zap.String("start", s.Start),
			)
			uc.audit.Dispatch(audit.Event{
				EstablishmentID: establishmentID,
				UserID:          &userID,
				Action:          "appointment_conflict",
				Entity:          "appointment",
				Metadata:        map[string]any{"date": s.Date, "start": s.Start, "staff_id": staffID},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "appointment_created",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return ap, nil
}

// withSlotLock só trava quando há colaborador; sem ele não existe
// exclusividade a proteger.
func withSlotLock(
	ctx context.Context,
	locker lock.Locker,
	establishmentID uuid.UUID,
	s slot,
	staffID *uuid.UUID,
	fn func(ctx context.Context) error,
) error {
	if staffID == nil {
		return fn(ctx)
	}

	err := locker.WithLock(ctx, lock.SlotKey(establishmentID, s.Date, s.Start, *staffID), fn)
	if errors.Is(err, lock.ErrNotAcquired) {
		return httperr.Conflict("slot_being_booked")
	}
	var be httperr.BusinessError
	if err != nil && !errors.As(err, &be) {
		return httperr.Store("failed_to_lock_slot", err)
	}
	return err
}
