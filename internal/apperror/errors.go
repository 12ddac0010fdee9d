package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so the HTTP layer can map it
// to a status code without string matching.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindNotFound            Kind = "NOT_FOUND"
	KindInvalidState        Kind = "INVALID_STATE"
	KindDemoItem            Kind = "DEMO_ITEM"
	KindInsufficientBalance Kind = "INSUFFICIENT_BALANCE"
	KindInternal            Kind = "INTERNAL"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, optional
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidState(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func NewDemoItem(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindDemoItem, Message: fmt.Sprintf(format, args...)}
}

func NewInsufficientBalance(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInsufficientBalance, Message: fmt.Sprintf(format, args...)}
}

func NewInternal(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf extracts the Kind from any error in the chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
