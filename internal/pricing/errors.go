package pricing

import (
	"errors"
	"fmt"

	"github.com/Simplici0/haulquote/internal/ratetable"
)

var (
	// ErrInvalidInput matches every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid quote input")
	// ErrDivisionByZero matches every *DivisionByZeroError.
	ErrDivisionByZero = errors.New("final price is zero")
	// ErrConfig matches rate table configuration faults.
	ErrConfig = ratetable.ErrConfig
)

// InvalidInputError names the input field that was rejected.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// DivisionByZeroError means the scaled band collapsed to a zero final price,
// leaving no margin to report. Only a broken rate table can get here.
type DivisionByZeroError struct {
	LoadSize ratetable.LoadSize
	Region   ratetable.Region
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("final price for %s load in %s region is zero; margin undefined", e.LoadSize, e.Region)
}

func (e *DivisionByZeroError) Is(target error) bool { return target == ErrDivisionByZero }
