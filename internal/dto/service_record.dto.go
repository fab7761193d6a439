package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
)

type ServiceLineDTO struct {
	ID        uuid.UUID       `json:"id"`
	ServiceID uuid.UUID       `json:"service_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

type StaffAssignmentDTO struct {
	StaffID  uuid.UUID `json:"staff_id"`
	Name     string    `json:"name"`
	PhotoURL string    `json:"photo_url,omitempty"`
}

type ServiceRecordDetail struct {
	models.ServiceRecord

	Services []ServiceLineDTO     `json:"services"`
	Staff    []StaffAssignmentDTO `json:"staff"`
}
