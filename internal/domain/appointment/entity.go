package appointment

import (
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Apply muda o status do agendamento conforme a tabela de transições.
func Apply(ap *models.Appointment, action Action) error {
	current, err := ParseStatus(ap.Status)
	if err != nil {
		return err
	}

	next, err := Next(current, action)
	if err != nil {
		return err
	}

	ap.Status = string(next)
	return nil
}

func Cancel(ap *models.Appointment) error {
	return Apply(ap, ActionCancel)
}

func Complete(ap *models.Appointment) error {
	return Apply(ap, ActionComplete)
}
