package dto

import "github.com/google/uuid"

type AppointmentListDTO struct {
	ID          uuid.UUID  `json:"id"`
	Date        string     `json:"appointment_date"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Status      string     `json:"status"`
	ClientName  string     `json:"client_name"`
	ClientPhone string     `json:"client_phone"`
	ServiceID   *uuid.UUID `json:"service_id"`
	ServiceName string     `json:"service_name"`
	StaffID     *uuid.UUID `json:"staff_id"`
	StaffName   string     `json:"staff_name"`
	Notes       string     `json:"notes"`

	// atendimento ativo gerado a partir deste agendamento, se houver
	ServiceRecordID *uuid.UUID `json:"service_record_id,omitempty"`
}
