package store

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/schema"
)

// UniqueRule devolve true quando duas linhas não podem coexistir.
type UniqueRule[T any] func(a, b *T) bool

type identifiable interface {
	EnsureID()
	Touch(now time.Time)
}

// MemoryTable é um store.Table em memória. Usado nos testes e quando
// STORE_DRIVER=memory.
type MemoryTable[T any] struct {
	name    string
	mu      sync.RWMutex
	rows    []*T
	uniques []UniqueRule[T]
	columns map[string][]int
	now     func() time.Time
}

var _ Table[struct{}] = (*MemoryTable[struct{}])(nil)

func NewMemoryTable[T any](name string, uniques ...UniqueRule[T]) *MemoryTable[T] {
	return &MemoryTable[T]{
		name:    name,
		uniques: uniques,
		columns: columnIndex(reflect.TypeOf((*T)(nil)).Elem()),
		now:     time.Now,
	}
}

func (m *MemoryTable[T]) Name() string {
	return m.name
}

// ======================================================
// Leitura
// ======================================================

func (m *MemoryTable[T]) Select(ctx context.Context, q Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, m.fail("select", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []T
	for _, row := range m.rows {
		ok, err := m.matches(row, q.Filters)
		if err != nil {
			return nil, m.fail("select", err)
		}
		if ok {
			out = append(out, *row)
		}
	}

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return m.less(&out[i], &out[j], q.Order)
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *MemoryTable[T]) First(ctx context.Context, q Query) (*T, error) {
	q.Limit = 1
	rows, err := m.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (m *MemoryTable[T]) Count(ctx context.Context, filters ...Filter) (int64, error) {
	rows, err := m.Select(ctx, Where(filters...))
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// ======================================================
// Escrita
// ======================================================

func (m *MemoryTable[T]) Insert(ctx context.Context, rows ...*T) error {
	if err := ctx.Err(); err != nil {
		return m.fail("insert", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	staged := make([]*T, 0, len(rows))
	for _, row := range rows {
		if id, ok := any(row).(identifiable); ok {
			id.EnsureID()
			id.Touch(now)
		}
		cp := *row
		if m.violatesUnique(&cp, append(slices.Clone(m.rows), staged...), nil) {
			return &Error{Code: CodeUniqueViolation, Table: m.name, Op: "insert"}
		}
		staged = append(staged, &cp)
	}

	m.rows = append(m.rows, staged...)
	return nil
}

func (m *MemoryTable[T]) Update(
	ctx context.Context,
	patch map[string]any,
	filters ...Filter,
) (int64, error) {
	if len(filters) == 0 {
		return 0, errMissingFilter(m.name, "update")
	}
	if err := ctx.Err(); err != nil {
		return 0, m.fail("update", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	next := slices.Clone(m.rows)
	var touched []int

	for i, row := range m.rows {
		ok, err := m.matches(row, filters)
		if err != nil {
			return 0, m.fail("update", err)
		}
		if !ok {
			continue
		}

		cp := *row
		for col, value := range patch {
			if err := m.set(&cp, col, value); err != nil {
				return 0, m.fail("update", err)
			}
		}
		if id, ok := any(&cp).(identifiable); ok {
			id.Touch(now)
		}
		next[i] = &cp
		touched = append(touched, i)
	}

	for _, i := range touched {
		if m.violatesUnique(next[i], next, next[i]) {
			return 0, &Error{Code: CodeUniqueViolation, Table: m.name, Op: "update"}
		}
	}

	m.rows = next
	return int64(len(touched)), nil
}

func (m *MemoryTable[T]) Delete(ctx context.Context, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, errMissingFilter(m.name, "delete")
	}
	if err := ctx.Err(); err != nil {
		return 0, m.fail("delete", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.rows[:0:0]
	var removed int64
	for _, row := range m.rows {
		ok, err := m.matches(row, filters)
		if err != nil {
			return 0, m.fail("delete", err)
		}
		if ok {
			removed++
			continue
		}
		kept = append(kept, row)
	}

	m.rows = kept
	return removed, nil
}

// ======================================================
// Helpers
// ======================================================

func (m *MemoryTable[T]) fail(op string, err error) error {
	return &Error{Code: CodeUnknown, Table: m.name, Op: op, Err: err}
}

func (m *MemoryTable[T]) violatesUnique(candidate *T, rows []*T, self *T) bool {
	for _, rule := range m.uniques {
		for _, other := range rows {
			if other == self {
				continue
			}
			if rule(candidate, other) {
				return true
			}
		}
	}
	return false
}

func (m *MemoryTable[T]) field(row *T, column string) (reflect.Value, error) {
	idx, ok := m.columns[column]
	if !ok {
		return reflect.Value{}, fmt.Errorf("unknown column %q", column)
	}
	return reflect.ValueOf(row).Elem().FieldByIndex(idx), nil
}

func (m *MemoryTable[T]) set(row *T, column string, value any) error {
	f, err := m.field(row, column)
	if err != nil {
		return err
	}

	if value == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}

	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(f.Type()):
		f.Set(v)
	case f.Kind() == reflect.Pointer && v.Type().AssignableTo(f.Type().Elem()):
		p := reflect.New(f.Type().Elem())
		p.Elem().Set(v)
		f.Set(p)
	case v.Type().ConvertibleTo(f.Type()):
		f.Set(v.Convert(f.Type()))
	default:
		return fmt.Errorf("column %q: cannot assign %T", column, value)
	}
	return nil
}

func (m *MemoryTable[T]) matches(row *T, filters []Filter) (bool, error) {
	for _, flt := range filters {
		f, err := m.field(row, flt.Column)
		if err != nil {
			return false, err
		}
		if !evaluate(normalize(f.Interface()), flt) {
			return false, nil
		}
	}
	return true, nil
}

func (m *MemoryTable[T]) less(a, b *T, orders []Order) bool {
	for _, o := range orders {
		fa, errA := m.field(a, o.Column)
		fb, errB := m.field(b, o.Column)
		if errA != nil || errB != nil {
			return false
		}

		c, ok := compare(normalize(fa.Interface()), normalize(fb.Interface()))
		if !ok || c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func evaluate(got any, f Filter) bool {
	switch f.Op {
	case OpEq:
		want := normalize(f.Value)
		if want == nil {
			return got == nil
		}
		return got != nil && got == want
	case OpNeq:
		want := normalize(f.Value)
		if want == nil {
			return got != nil
		}
		return got != nil && got != want
	case OpIn:
		values, _ := f.Value.([]any)
		for _, v := range values {
			if w := normalize(v); w != nil && w == got {
				return true
			}
		}
		return false
	case OpGte:
		c, ok := compare(got, normalize(f.Value))
		return ok && c >= 0
	case OpLte:
		c, ok := compare(got, normalize(f.Value))
		return ok && c <= 0
	case OpILike:
		s, ok := got.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(f.Value)))
	}
	return false
}

// normalize reduz um valor de coluna a string, float64, bool ou nil para
// que filtros comparem como o banco compararia.
func normalize(v any) any {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch x := rv.Interface().(type) {
	case time.Time:
		return float64(x.UnixNano())
	case decimal.Decimal:
		return x.InexactFloat64()
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		return x.Decimal.InexactFloat64()
	case fmt.Stringer:
		if rv.Kind() != reflect.String {
			return x.String()
		}
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return fmt.Sprint(rv.Interface())
}

func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

// columnIndex mapeia nome de coluna (mesma convenção do gorm) para o
// caminho do campo na struct, achatando structs embutidas.
func columnIndex(t reflect.Type) map[string][]int {
	naming := schema.NamingStrategy{}
	out := map[string][]int{}

	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			idx := append(slices.Clone(prefix), i)

			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				walk(sf.Type, idx)
				continue
			}
			if !sf.IsExported() {
				continue
			}

			name := gormColumn(sf.Tag.Get("gorm"))
			if name == "" {
				name = naming.ColumnName("", sf.Name)
			}
			out[name] = idx
		}
	}
	walk(t, nil)

	return out
}

func gormColumn(tag string) string {
	for _, part := range strings.Split(tag, ";") {
		if k, v, ok := strings.Cut(part, ":"); ok && strings.EqualFold(strings.TrimSpace(k), "column") {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
