package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a BusinessError. The transport maps each kind to a status.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindClosed            Kind = "closed"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindForbidden         Kind = "forbidden"
	KindUnauthorized      Kind = "unauthorized"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (e BusinessError) WithDetail(key string, value any) BusinessError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

func Validation(code, field, message string) BusinessError {
	e := BusinessError{Kind: KindValidation, Code: code, Message: message}
	if field != "" {
		e = e.WithDetail("field", field)
	}
	return e
}

func Conflict(code, message string) BusinessError {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func Closed(code, message string) BusinessError {
	return BusinessError{Kind: KindClosed, Code: code, Message: message}
}

func NotFoundErr(resource string) BusinessError {
	return BusinessError{
		Kind:    KindNotFound,
		Code:    resource + "_not_found",
		Message: resource + " not found",
	}
}

func InvalidTransition(from, to string) BusinessError {
	return BusinessError{
		Kind:    KindInvalidTransition,
		Code:    "invalid_transition",
		Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
		Details: map[string]any{"from": from, "to": to},
	}
}

func Forbidden() BusinessError {
	return BusinessError{Kind: KindForbidden, Code: "forbidden", Message: "administrator access required"}
}

func Unauthenticated(code, message string) BusinessError {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: message}
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

func As(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
