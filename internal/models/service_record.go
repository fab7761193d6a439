package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceRecord struct {
	Base

	EstablishmentID uuid.UUID  `gorm:"type:uuid;index;not null" json:"establishment_id"`
	AppointmentID   *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id"`

	ClientName  string `gorm:"size:120;not null" json:"client_name"`
	ClientPhone string `gorm:"size:30" json:"client_phone"`
	ClientEmail string `gorm:"size:120" json:"client_email"`

	ServiceDate string `gorm:"size:10;index;not null" json:"service_date"`
	StartTime   string `gorm:"size:8;not null" json:"start_time"`
	EndTime     string `gorm:"size:8" json:"end_time"`

	Status     string          `gorm:"size:20;default:'em_andamento'" json:"status"`
	Notes      string          `gorm:"type:text" json:"notes"`
	TotalValue decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"total_value"`
	Origin     string          `gorm:"size:20;default:'direto'" json:"origin"`
}

// ServiceRecordService guarda o preço do serviço no momento em que foi anexado.
type ServiceRecordService struct {
	Base

	ServiceRecordID uuid.UUID       `gorm:"type:uuid;index;not null" json:"service_record_id"`
	ServiceID       uuid.UUID       `gorm:"type:uuid;not null" json:"service_id"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}

type ServiceRecordStaff struct {
	Base

	ServiceRecordID uuid.UUID `gorm:"type:uuid;index;not null" json:"service_record_id"`
	StaffID         uuid.UUID `gorm:"type:uuid;not null" json:"staff_id"`
}

func (ServiceRecordStaff) TableName() string {
	return "service_record_staff"
}
