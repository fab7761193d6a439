package store

import "context"

// Table é o acesso tipado a uma tabela do banco relacional.
//
// First devolve (nil, nil) quando nada casa com o filtro: "não encontrado"
// em leituras de uma linha é um resultado válido, não um erro. Update e
// Delete exigem pelo menos um filtro.
type Table[T any] interface {
	Name() string

	Select(ctx context.Context, q Query) ([]T, error)
	First(ctx context.Context, q Query) (*T, error)
	Count(ctx context.Context, filters ...Filter) (int64, error)

	Insert(ctx context.Context, rows ...*T) error
	Update(ctx context.Context, patch map[string]any, filters ...Filter) (int64, error)
	Delete(ctx context.Context, filters ...Filter) (int64, error)
}

// Exists é um atalho para Count > 0.
func Exists[T any](ctx context.Context, t Table[T], filters ...Filter) (bool, error) {
	n, err := t.Count(ctx, filters...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
