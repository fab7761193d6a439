package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
)

// código SQLSTATE de unique_violation no Postgres
const pgUniqueViolation = "23505"

// GormTable implementa store.Table sobre o gorm.
type GormTable[T any] struct {
	db   *gorm.DB
	name string
}

var _ store.Table[struct{}] = (*GormTable[struct{}])(nil)

func NewGormTable[T any](db *gorm.DB, name string) *GormTable[T] {
	return &GormTable[T]{db: db, name: name}
}

func (t *GormTable[T]) Name() string {
	return t.name
}

func (t *GormTable[T]) model(ctx context.Context) *gorm.DB {
	return t.db.WithContext(ctx).Model(new(T))
}

// --------------------------------------------------
// Leitura
// --------------------------------------------------

func (t *GormTable[T]) Select(ctx context.Context, q store.Query) ([]T, error) {
	tx := applyQuery(t.model(ctx), q)

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, t.wrap("select", err)
	}
	return rows, nil
}

func (t *GormTable[T]) First(ctx context.Context, q store.Query) (*T, error) {
	tx := applyQuery(t.model(ctx), q)

	var row T
	if err := tx.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, t.wrap("first", err)
	}
	return &row, nil
}

func (t *GormTable[T]) Count(ctx context.Context, filters ...store.Filter) (int64, error) {
	var n int64
	if err := applyFilters(t.model(ctx), filters).Count(&n).Error; err != nil {
		return 0, t.wrap("count", err)
	}
	return n, nil
}

// --------------------------------------------------
// Escrita
// --------------------------------------------------

func (t *GormTable[T]) Insert(ctx context.Context, rows ...*T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := t.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(&rows).Error; err != nil {
		return t.wrap("insert", err)
	}
	return nil
}

func (t *GormTable[T]) Update(
	ctx context.Context,
	patch map[string]any,
	filters ...store.Filter,
) (int64, error) {
	if len(filters) == 0 {
		return 0, &store.Error{Code: store.CodeMissingFilter, Table: t.name, Op: "update"}
	}

	res := applyFilters(t.model(ctx), filters).Updates(patch)
	if res.Error != nil {
		return 0, t.wrap("update", res.Error)
	}
	return res.RowsAffected, nil
}

func (t *GormTable[T]) Delete(ctx context.Context, filters ...store.Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, &store.Error{Code: store.CodeMissingFilter, Table: t.name, Op: "delete"}
	}

	res := applyFilters(t.db.WithContext(ctx), filters).Delete(new(T))
	if res.Error != nil {
		return 0, t.wrap("delete", res.Error)
	}
	return res.RowsAffected, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func (t *GormTable[T]) wrap(op string, err error) error {
	code := store.CodeUnknown

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		code = store.CodeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		code = store.CodeUniqueViolation
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		code = store.CodeUniqueViolation
	}

	return &store.Error{Code: code, Table: t.name, Op: op, Err: err}
}

func applyQuery(tx *gorm.DB, q store.Query) *gorm.DB {
	tx = applyFilters(tx, q.Filters)

	for _, o := range q.Order {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: o.Column},
			Desc:   o.Desc,
		})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	return tx
}

func applyFilters(tx *gorm.DB, filters []store.Filter) *gorm.DB {
	for _, f := range filters {
		col := clause.Column{Name: f.Column}

		switch f.Op {
		case store.OpEq:
			tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
		case store.OpNeq:
			tx = tx.Where(clause.Neq{Column: col, Value: f.Value})
		case store.OpIn:
			values, _ := f.Value.([]any)
			tx = tx.Where(clause.IN{Column: col, Values: values})
		case store.OpGte:
			tx = tx.Where(clause.Gte{Column: col, Value: f.Value})
		case store.OpLte:
			tx = tx.Where(clause.Lte{Column: col, Value: f.Value})
		case store.OpILike:
			like := "%" + strings.ToLower(fmt.Sprint(f.Value)) + "%"
			tx = tx.Where(
				fmt.Sprintf("LOWER(%s) LIKE ?", tx.Statement.Quote(f.Column)),
				like,
			)
		}
	}
	return tx
}
