package portfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrTransactionDateNotSupported is returned when any transaction predates
	// 6 April 2008, when the current matching rules came into force.
	ErrTransactionDateNotSupported = errors.New("transactions before 06/04/2008 are not supported")
	ErrInvalidData                 = errors.New("invalid data")
	ErrInternal                    = errors.New("internal error")
	// ErrIncomplete means an asset still had unmatched disposals after every
	// matching pass. Indicates a defect rather than bad input.
	ErrIncomplete = errors.New("calculation incomplete: disposals left unmatched")
)

// InvalidDataError reports input that breaks a business rule.
type InvalidDataError struct {
	Reason string
}

func (e *InvalidDataError) Error() string { return fmt.Sprintf("%v: %s", ErrInvalidData, e.Reason) }

func (e *InvalidDataError) Is(target error) bool { return target == ErrInvalidData }

func invalidDataf(format string, v ...interface{}) error {
	return &InvalidDataError{Reason: fmt.Sprintf(format, v...)}
}

// InternalError reports a broken structural invariant.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string { return fmt.Sprintf("%v: %s", ErrInternal, e.Reason) }

func (e *InternalError) Is(target error) bool { return target == ErrInternal }

func internalErrorf(format string, v ...interface{}) error {
	return &InternalError{Reason: fmt.Sprintf(format, v...)}
}
