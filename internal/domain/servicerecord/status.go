package servicerecord

import (
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
)

// ===============================
// Service Record Status / Origin
// ===============================

type Status string

const (
	StatusScheduled  Status = "agendado"
	StatusInProgress Status = "em_andamento"
	StatusFinished   Status = "finalizado"
	StatusCancelled  Status = "cancelado"
)

type Origin string

const (
	OriginAppointment Origin = "agendamento"
	OriginDirect      Origin = "direto"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusInProgress, StatusFinished, StatusCancelled:
		return Status(s), nil
	}
	return "", httperr.Validation("invalid_service_record_status")
}

func (s Status) Closed() bool {
	return s == StatusFinished || s == StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanFinalize exige atendimento aberto e pelo menos um serviço anexado.
func CanFinalize(current Status, serviceCount int64) error {
	switch current {
	case StatusScheduled, StatusInProgress:
	case StatusFinished, StatusCancelled:
		return httperr.InvalidState("service_record_closed")
	}
	if serviceCount == 0 {
		return httperr.Finalization("no_services_attached")
	}
	return nil
}

// CanCancel rejeita apenas atendimentos já finalizados. Cancelar de novo
// é permitido e não muda nada.
func CanCancel(current Status) error {
	switch current {
	case StatusScheduled, StatusInProgress, StatusCancelled:
		return nil
	case StatusFinished:
	}
	return httperr.InvalidState("service_record_finished")
}

// CanEdit libera troca de serviços e colaboradores só enquanto aberto.
func CanEdit(current Status) error {
	if current.Closed() {
		return httperr.InvalidState("service_record_closed")
	}
	return nil
}
