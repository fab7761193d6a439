package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

type Logger struct {
	logs store.Table[models.AuditLog]
}

func New(logs store.Table[models.AuditLog]) *Logger {
	return &Logger{logs: logs}
}

func (l *Logger) Log(
	ctx context.Context,
	establishmentID uuid.UUID,
	userID *uuid.UUID,
	action string,
	entity string,
	entityID *uuid.UUID,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		EstablishmentID: establishmentID,
		UserID:          userID,
		Action:          action,
		Entity:          entity,
		EntityID:        entityID,
		Metadata:        metaJSON,
	}

	return l.logs.Insert(ctx, &log)
}
