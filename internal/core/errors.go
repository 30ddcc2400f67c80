package core

import (
	"errors"
	"fmt"
)

// Code identifies the kind of domain failure. Codes are stable and safe to match on.
type Code string

const (
	CodeUnknownUnit        Code = "UNKNOWN_UNIT"
	CodeCategoryMismatch   Code = "CATEGORY_MISMATCH"
	CodeConversionMismatch Code = "CONVERSION_MISMATCH"
	CodeInvalidQuantity    Code = "INVALID_QUANTITY"
	CodeInvalidConversion  Code = "INVALID_CONVERSION"
	CodeInvalidAmount      Code = "INVALID_AMOUNT"
	CodeInvalidTaxRate     Code = "INVALID_TAX_RATE"
	CodeCurrencyMismatch   Code = "CURRENCY_MISMATCH"
	CodeValidation         Code = "VALIDATION_ERROR"
)

// Error is the single domain failure type. Variants are distinguished by Code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, core.ErrCategoryMismatch).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is. Their messages are never returned to callers.
var (
	ErrUnknownUnit        = &Error{Code: CodeUnknownUnit, Message: "unknown unit"}
	ErrCategoryMismatch   = &Error{Code: CodeCategoryMismatch, Message: "unit category mismatch"}
	ErrConversionMismatch = &Error{Code: CodeConversionMismatch, Message: "conversion mismatch"}
	ErrInvalidQuantity    = &Error{Code: CodeInvalidQuantity, Message: "invalid quantity"}
	ErrInvalidConversion  = &Error{Code: CodeInvalidConversion, Message: "invalid conversion"}
	ErrInvalidAmount      = &Error{Code: CodeInvalidAmount, Message: "invalid amount"}
	ErrInvalidTaxRate     = &Error{Code: CodeInvalidTaxRate, Message: "invalid tax rate"}
	ErrCurrencyMismatch   = &Error{Code: CodeCurrencyMismatch, Message: "currency mismatch"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
)

func newError(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return newError(CodeValidation, format, args...)
}

// CodeOf returns the domain code carried by err, or "" if err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
