package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/blob"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/imaging"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
)

type Kind string

const (
	KindStaffPhoto Kind = "staff"
	KindLogo       Kind = "logos"
)

// Uploader converte a imagem para WebP e grava no storage.
type Uploader struct {
	storage blob.Storage
	log     *zap.Logger
	now     func() time.Time
}

func NewUploader(storage blob.Storage, log *zap.Logger) *Uploader {
	if storage == nil {
		storage = blob.Disabled{}
	}
	return &Uploader{storage: storage, log: logger.OrNop(log), now: time.Now}
}

func Key(kind Kind, establishmentID, ownerID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s.webp", kind, establishmentID, ownerID)
}

// Image devolve a URL pública com um parâmetro de versão, para o app não
// reaproveitar a foto antiga do cache.
func (u *Uploader) Image(
	ctx context.Context,
	kind Kind,
	establishmentID uuid.UUID,
	ownerID uuid.UUID,
	r io.Reader,
) (string, error) {

	data, err := imaging.ToWebP(r, imaging.Options{})
	if errors.Is(err, imaging.ErrUnsupported) {
		return "", httperr.Validation("invalid_image")
	}
	if err != nil {
		return "", httperr.Store("failed_to_process_image", err)
	}

	key := Key(kind, establishmentID, ownerID)
	url, err := u.storage.Put(ctx, key, imaging.ContentType, bytes.NewReader(data), int64(len(data)))
	if errors.Is(err, blob.ErrDisabled) {
		return "", httperr.InvalidState("uploads_disabled")
	}
	if err != nil {
		u.log.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return "", httperr.Store("failed_to_upload_image", err)
	}

	return fmt.Sprintf("%s?v=%d", url, u.now().Unix()), nil
}
