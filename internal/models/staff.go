package models

import "github.com/google/uuid"

type Staff struct {
	Base

	EstablishmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"establishment_id"`

	Name     string `gorm:"size:120;not null" json:"name"`
	PhotoURL string `gorm:"size:500" json:"photo_url"`

	Preferences []StaffServicePreference `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE;" json:"preferences,omitempty"`
}

func (Staff) TableName() string {
	return "staff"
}

type StaffServicePreference struct {
	Base

	StaffID   uuid.UUID `gorm:"type:uuid;index;not null" json:"staff_id"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"service_id"`
}
