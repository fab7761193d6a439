package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service é uma entrada do catálogo do estabelecimento.
type Service struct {
	Base

	EstablishmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"establishment_id"`

	Name        string              `gorm:"size:120;not null" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	Price       decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"price"`
	DurationMin *int                `json:"duration_min"`
	Favorite    bool                `gorm:"default:false" json:"favorite"`
}
