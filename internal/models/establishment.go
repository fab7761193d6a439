package models

import "github.com/google/uuid"

type Establishment struct {
	Base

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100" json:"email"`
	Phone        string `gorm:"size:20" json:"phone"`
	Address      string `gorm:"size:255" json:"address"`
	BusinessLine *int   `json:"business_line"`
	LogoURL      string `gorm:"size:500" json:"logo_url"`
	Timezone     string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
}

// EstablishmentSettings guarda as preferências de mensagem do estabelecimento.
type EstablishmentSettings struct {
	Base

	EstablishmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"establishment_id"`
	MessageTemplate string    `gorm:"type:text" json:"message_template"`
}

func (EstablishmentSettings) TableName() string {
	return "establishment_settings"
}
