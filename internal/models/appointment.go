package models

import "github.com/google/uuid"

// Appointment é um horário reservado que ainda não virou atendimento.
// Data e horários ficam como texto (YYYY-MM-DD / HH:MM:SS) porque o
// índice único de conflito compara exatamente esses valores.
type Appointment struct {
	Base

	EstablishmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"establishment_id"`

	ClientName  string `gorm:"size:120;not null" json:"client_name"`
	ClientPhone string `gorm:"size:30;not null" json:"client_phone"`
	ClientEmail string `gorm:"size:120" json:"client_email"`

	AppointmentDate string `gorm:"size:10;index;not null" json:"appointment_date"`
	StartTime       string `gorm:"size:8;not null" json:"start_time"`
	EndTime         string `gorm:"size:8" json:"end_time"`

	ServiceID *uuid.UUID `gorm:"type:uuid" json:"service_id"`
	StaffID   *uuid.UUID `gorm:"type:uuid" json:"staff_id"`

	Notes  string `gorm:"type:text" json:"notes"`
	Status string `gorm:"size:20;default:'agendado'" json:"status"`
}
