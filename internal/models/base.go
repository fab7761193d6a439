package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carrega os campos comuns a todas as tabelas.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EnsureID gera o id quando ainda não definido. O store em memória também
// chama, então a regra não pode depender do gorm.
func (b *Base) EnsureID() {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
}

// Touch atualiza os timestamps sem depender do autoCreateTime do gorm.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (b *Base) BeforeCreate(_ *gorm.DB) error {
	b.EnsureID()
	return nil
}
