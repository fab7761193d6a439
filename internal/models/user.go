package models

import "github.com/google/uuid"

type User struct {
	Base

	EstablishmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"establishment_id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'owner'" json:"role"`
}
