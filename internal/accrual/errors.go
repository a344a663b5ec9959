package accrual

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	errMissing = errors.New("missing argument")
	errEmpty   = errors.New("empty input")

	// ErrExponentRange is returned for numerals whose exponent exceeds MaxExponent.
	ErrExponentRange = errors.New("exponent out of range")

	// ErrPrecision is returned by Validate for a non-positive precision.
	ErrPrecision = errors.New("precision must be at least 1")
)

// ParseError reports an input that is missing or is not a decimal numeral.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s '%s'", e.Field, e.Input)
	}
	return fmt.Sprintf("invalid %s '%s': %v", e.Field, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EncodingError reports a result that cannot be represented as uint256.
type EncodingError struct {
	Value *big.Int
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s as uint256: %v", e.Value.String(), e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
