package appointment

import (
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled  Status = "agendado"
	StatusInProgress Status = "em_andamento"
	StatusCompleted  Status = "concluido"
	StatusCancelled  Status = "cancelado"
)

var statuses = []Status{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled}

func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

// ParseStatus aceita vazio como agendado, que é como linhas antigas sem
// status eram tratadas.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusScheduled, nil
	}
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", httperr.Validation("invalid_appointment_status")
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Transitions
// ===============================

type Action string

const (
	// ActionStart: o agendamento virou atendimento.
	ActionStart Action = "start"
	// ActionComplete: botão "Finalizar" direto na agenda do dia.
	ActionComplete Action = "complete"
	// ActionConclude: cascata da finalização do atendimento.
	ActionConclude Action = "conclude"
	ActionCancel   Action = "cancel"
	// ActionReopen: cascata do cancelamento do atendimento.
	ActionReopen Action = "reopen"
)

// Next devolve o status resultante de aplicar action sobre current.
func Next(current Status, action Action) (Status, error) {
	switch action {
	case ActionStart:
		if current == StatusScheduled {
			return StatusInProgress, nil
		}

	case ActionComplete:
		if current == StatusScheduled {
			return StatusCompleted, nil
		}

	case ActionConclude:
		switch current {
		case StatusInProgress, StatusScheduled:
			return StatusCompleted, nil
		case StatusCompleted, StatusCancelled:
		}

	case ActionCancel:
		switch current {
		case StatusScheduled, StatusInProgress, StatusCancelled:
			return StatusCancelled, nil
		case StatusCompleted:
		}

	case ActionReopen:
		// sempre volta para agendado, mesmo que o horário já tenha passado
		switch current {
		case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
			return StatusScheduled, nil
		}
	}

	return current, httperr.InvalidState("invalid_state")
}

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	_, err := Next(current, ActionCancel)
	return err
}

func CanComplete(current Status) error {
	_, err := Next(current, ActionComplete)
	return err
}

func CanStart(current Status) error {
	_, err := Next(current, ActionStart)
	return err
}

// CanEdit bloqueia edição de agendamentos encerrados.
func CanEdit(current Status) error {
	if current.Terminal() {
		return httperr.InvalidState("appointment_closed")
	}
	return nil
}

// CanDelete só libera agendamentos ainda não iniciados.
func CanDelete(current Status) error {
	if current != StatusScheduled {
		return httperr.InvalidState("appointment_not_deletable")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
