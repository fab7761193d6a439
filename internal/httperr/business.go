package httperr

import (
	"errors"
	"fmt"
)

// Kind classifica a falha de negócio e decide o status HTTP.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindConversionExists Kind = "conversion_exists"
	KindFinalization     Kind = "finalization"
	KindNotFound         Kind = "not_found"
	KindInvalidState     Kind = "invalid_state"
	KindUnauthorized     Kind = "unauthorized"
	KindStore            Kind = "store"
)

type BusinessError struct {
	Kind Kind
	Code string
	Err  error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func Validation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func Conflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ConversionExists(code string) error {
	return BusinessError{Kind: KindConversionExists, Code: code}
}

func Finalization(code string) error {
	return BusinessError{Kind: KindFinalization, Code: code}
}

func NotFoundErr(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func InvalidState(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func Unauthenticated(code string) error {
	return BusinessError{Kind: KindUnauthorized, Code: code}
}

// Store envolve uma falha do banco. O erro original fica acessível por
// errors.Is / errors.As.
func Store(code string, err error) error {
	if err == nil {
		return nil
	}
	return BusinessError{Kind: KindStore, Code: code, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
