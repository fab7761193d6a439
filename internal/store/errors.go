package store

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeUniqueViolation Code = "unique_violation"
	CodeMissingFilter   Code = "missing_filter"
	CodeUnknown         Code = "unknown"
)

// Error é a falha estruturada devolvida por qualquer backend.
type Error struct {
	Code  Code
	Table string
	Op    string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store: %s %s: %s", e.Op, e.Table, e.Code)
	}
	return fmt.Sprintf("store: %s %s: %s: %v", e.Op, e.Table, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

func IsUniqueViolation(err error) bool {
	return hasCode(err, CodeUniqueViolation)
}

func hasCode(err error, code Code) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func errMissingFilter(table, op string) error {
	return &Error{
		Code:  CodeMissingFilter,
		Table: table,
		Op:    op,
		Err:   errors.New("refusing to touch every row"),
	}
}
