package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/lock"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type EditAppointment struct {
	gw       *store.Gateway
	conflict *ConflictDetector
	locker   lock.Locker
	audit    *audit.Dispatcher
}

func NewEditAppointment(
	gw *store.Gateway,
	locker lock.Locker,
	audit *audit.Dispatcher,
) *EditAppointment {
	if locker == nil {
		locker = lock.Noop{}
	}
	return &EditAppointment{
		gw:       gw,
		conflict: NewConflictDetector(gw.Appointments),
		locker:   locker,
		audit:    audit,
	}
}

// Execute regrava os dados do agendamento sem mexer no status. A checagem
// de conflito só roda se data, início ou colaborador mudaram.
func (uc *EditAppointment) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	appointmentID uuid.UUID,
	in AppointmentInput,
) (*models.Appointment, error) {

	current, err := loadAppointment(ctx, uc.gw, establishmentID, appointmentID)
	if err != nil {
		return nil, err
	}

	status, err := domain.ParseStatus(current.Status)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(status); err != nil {
		return nil, err
	}

	// sem término informado: mantém o atual se o início não mudou
	if strings.TrimSpace(in.EndTime) == "" && in.Time != "" {
		if start, err := domain.ParseClock(in.Time); err == nil && start == current.StartTime && current.EndTime != "" {
			in.EndTime = current.EndTime
		}
	}

	s, err := in.validate()
	if err != nil {
		return nil, err
	}

	staffID := in.staff()
	if err := ensureReferences(ctx, uc.gw, establishmentID, in.ServiceIDs, staffID); err != nil {
		return nil, err
	}

	slotChanged := s.Date != current.AppointmentDate ||
		s.Start != current.StartTime ||
		!sameStaff(staffID, current.StaffID)

	patch := map[string]any{
		"client_name":      strings.TrimSpace(in.ClientName),
		"client_phone":     strings.TrimSpace(in.ClientPhone),
		"client_email":     strings.TrimSpace(in.ClientEmail),
		"appointment_date": s.Date,
		"start_time":       s.Start,
		"end_time":         s.End,
		"service_id":       in.primaryService(),
		"staff_id":         staffID,
		"notes":            in.Notes,
	}

	write := func(ctx context.Context) error {
		if slotChanged {
			taken, err := uc.conflict.HasConflict(ctx, establishmentID, s.Date, s.Start, staffID, &current.ID)
			if err != nil {
				return err
			}
			if taken {
				return httperr.Conflict("slot_taken")
			}
		}

		if _, err := uc.gw.Appointments.Update(ctx, patch,
			store.Eq("id", current.ID),
			store.Eq("establishment_id", establishmentID),
		); err != nil {
			if store.IsUniqueViolation(err) {
				return httperr.Conflict("slot_taken")
			}
			return httperr.Store("failed_to_update_appointment", err)
		}
		return nil
	}

	if slotChanged {
		err = withSlotLock(ctx, uc.locker, establishmentID, s, staffID, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "appointment_updated",
		Entity:          "appointment",
		EntityID:        &current.ID,
		Metadata:        map[string]any{"slot_changed": slotChanged},
	})

	return loadAppointment(ctx, uc.gw, establishmentID, current.ID)
}
