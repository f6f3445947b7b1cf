package errors

import "errors"

type Category string

const (
	CategoryInvalidInput    Category = "invalid_input"
	CategoryConfigInvalid   Category = "config_invalid"
	CategoryVerification    Category = "verification_failed"
	CategoryIOFailure       Category = "io_failure"
	CategoryInternalFailure Category = "internal_failure"
)

type classifiedError struct {
	category Category
	code     string
	hint     string
	cause    error
}

func (e *classifiedError) Error() string {
	if e.cause == nil {
		return "unknown error"
	}
	return e.cause.Error()
}

func (e *classifiedError) Unwrap() error {
	return e.cause
}

func (e *classifiedError) Category() Category {
	return e.category
}

func (e *classifiedError) Code() string {
	return e.code
}

func (e *classifiedError) Hint() string {
	return e.hint
}

// Wrap classifies a cause with a category, stable code and user-facing hint.
// The pipeline is deterministic, so classified errors carry no retryable
// flag: a failure recurs until the input or configuration changes.
func Wrap(cause error, category Category, code, hint string) error {
	if cause == nil {
		return nil
	}
	return &classifiedError{
		category: category,
		code:     code,
		hint:     hint,
		cause:    cause,
	}
}

func CategoryOf(err error) Category {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.category
	}
	return ""
}

func CodeOf(err error) string {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.code
	}
	return ""
}

func HintOf(err error) string {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.hint
	}
	return ""
}
