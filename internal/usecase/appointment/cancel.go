package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type CancelAppointment struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	gw *store.Gateway,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		gw:    gw,
		audit: audit,
	}
}

// Execute cancela o agendamento. Cancelar de novo apenas regrava o mesmo
// status.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.gw, establishmentID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap); err != nil {
		return nil, err
	}

	if err := setStatus(ctx, uc.gw, establishmentID, ap.ID, ap.Status); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "appointment_cancelled",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return ap, nil
}

func setStatus(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	appointmentID uuid.UUID,
	status string,
) error {
	if _, err := gw.Appointments.Update(ctx,
		map[string]any{"status": status},
		store.Eq("id", appointmentID),
		store.Eq("establishment_id", establishmentID),
	); err != nil {
		if store.IsUniqueViolation(err) {
			return httperr.Conflict("slot_taken")
		}
		return httperr.Store("failed_to_update_appointment", err)
	}
	return nil
}
