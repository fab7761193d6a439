package models

import "github.com/google/uuid"

type AuditLog struct {
	Base

	EstablishmentID uuid.UUID  `gorm:"type:uuid;index" json:"establishment_id"`
	UserID          *uuid.UUID `gorm:"type:uuid" json:"user_id"`
	Action          string     `gorm:"size:50;not null" json:"action"`

	Entity   string     `gorm:"size:50" json:"entity"`
	EntityID *uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	Metadata string     `gorm:"type:text" json:"metadata"`
}
