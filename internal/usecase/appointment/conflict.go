package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/atendimento-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// ConflictDetector responde se o colaborador já tem agendamento ativo no
// mesmo dia e horário. É só a verificação prévia; quem garante a regra é
// o índice único do banco.
type ConflictDetector struct {
	appointments store.Table[models.Appointment]
}

func NewConflictDetector(appointments store.Table[models.Appointment]) *ConflictDetector {
	return &ConflictDetector{appointments: appointments}
}

// HasConflict ignora horários sem colaborador: só existe exclusividade por
// profissional. excludeID tira da busca o próprio registro em edição.
func (d *ConflictDetector) HasConflict(
	ctx context.Context,
	establishmentID uuid.UUID,
	date string,
	startTime string,
	staffID *uuid.UUID,
	excludeID *uuid.UUID,
) (bool, error) {
	if staffID == nil || *staffID == uuid.Nil {
		return false, nil
	}

	filters := []store.Filter{
		store.Eq("establishment_id", establishmentID),
		store.Eq("appointment_date", date),
		store.Eq("start_time", startTime),
		store.Eq("staff_id", *staffID),
		store.Neq("status", string(domain.StatusCancelled)),
	}
	if excludeID != nil {
		filters = append(filters, store.Neq("id", *excludeID))
	}

	taken, err := store.Exists(ctx, d.appointments, filters...)
	if err != nil {
		return false, httperr.Store("failed_to_check_conflict", err)
	}
	return taken, nil
}
