package store

// Op é o operador de um filtro. Todos os filtros de uma consulta são
// combinados com AND.
type Op string

const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpIn    Op = "in"
	OpGte   Op = "gte"
	OpLte   Op = "lte"
	OpILike Op = "ilike"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq com valor nil vira "IS NULL".
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Neq com valor nil vira "IS NOT NULL".
func Neq(column string, value any) Filter {
	return Filter{Column: column, Op: OpNeq, Value: value}
}

func In[T any](column string, values []T) Filter {
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	return Filter{Column: column, Op: OpIn, Value: list}
}

func Gte(column string, value any) Filter {
	return Filter{Column: column, Op: OpGte, Value: value}
}

func Lte(column string, value any) Filter {
	return Filter{Column: column, Op: OpLte, Value: value}
}

// ILike busca substring sem diferenciar maiúsculas.
func ILike(column, substr string) Filter {
	return Filter{Column: column, Op: OpILike, Value: substr}
}

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

type Query struct {
	Filters []Filter
	Order   []Order
	Limit   int
	Offset  int
}

func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

func (q Query) OrderBy(orders ...Order) Query {
	q.Order = append(append([]Order(nil), q.Order...), orders...)
	return q
}

func (q Query) Paginate(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}
