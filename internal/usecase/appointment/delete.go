package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type DeleteAppointment struct {
	gw    *store.Gateway
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	gw *store.Gateway,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		gw:    gw,
		audit: audit,
	}
}

// Execute apaga o agendamento de vez. Bloqueia se já existe atendimento
// ligado a ele ou se ele já saiu de agendado.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID uuid.UUID,
	appointmentID uuid.UUID,
) error {

	ap, err := loadAppointment(ctx, uc.gw, establishmentID, appointmentID)
	if err != nil {
		return err
	}

	converted, err := IsConverted(ctx, uc.gw, establishmentID, ap.ID)
	if err != nil {
		return err
	}
	if converted {
		return httperr.ConversionExists("appointment_converted")
	}

	status, err := domain.ParseStatus(ap.Status)
	if err != nil {
		return err
	}
	if err := domain.CanDelete(status); err != nil {
		return err
	}

	if _, err := uc.gw.Appointments.Delete(ctx,
		store.Eq("id", ap.ID),
		store.Eq("establishment_id", establishmentID),
	); err != nil {
		return httperr.Store("failed_to_delete_appointment", err)
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          &userID,
		Action:          "appointment_deleted",
		Entity:          "appointment",
		EntityID:        &ap.ID,
	})

	return nil
}

// IsConverted informa se algum atendimento referencia o agendamento.
func IsConverted(
	ctx context.Context,
	gw *store.Gateway,
	establishmentID uuid.UUID,
	appointmentID uuid.UUID,
) (bool, error) {
	ok, err := store.Exists(ctx, gw.ServiceRecords,
		store.Eq("establishment_id", establishmentID),
		store.Eq("appointment_id", appointmentID),
	)
	if err != nil {
		return false, httperr.Store("failed_to_check_conversion", err)
	}
	return ok, nil
}
