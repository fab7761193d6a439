package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// CompleteAppointment é o "Finalizar" direto da agenda, sem passar por
// atendimento.
type CompleteAppointment struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	gw *store.Gateway,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		gw:    gw,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.gw, establishmentID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap); err != nil {
		return nil, err
	}

	if err := setStatus(ctx, uc.gw, establishmentID, ap.ID, ap.Status); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "appointment_completed",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return ap, nil
}
