package blob

import (
	"context"
	"errors"
	"io"
)

var ErrDisabled = errors.New("blob storage not configured")

// Storage grava objetos públicos (fotos, logos) e devolve a URL de acesso.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// Disabled é usado quando o S3 não está configurado: uploads falham com
// ErrDisabled e o resto da API segue funcionando.
type Disabled struct{}

func (Disabled) Put(context.Context, string, string, io.Reader, int64) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Delete(context.Context, string) error {
	return nil
}
