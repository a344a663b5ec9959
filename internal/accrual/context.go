package accrual

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ScaleExponent is the 18-decimal fixed-point convention used on chain.
const ScaleExponent = 18

// DefaultPrecision is the number of significant digits kept by DefaultContext.
const DefaultPrecision = 64

// MaxExponent bounds the base-10 exponent of a parsed numeral. Anything
// outside it lies far beyond uint256 range plus DefaultPrecision digits, and
// aligning such exponents for addition would build huge coefficients.
const MaxExponent = 1000

// Context configures decimal arithmetic.
//
// Every intermediate result is cut to Precision significant digits, rounding
// toward zero. This matches the truncating integer division used by
// contract arithmetic; results are never rounded to nearest.
type Context struct {
	Precision int
}

// DefaultContext is the configuration the reference values are produced with.
var DefaultContext = Context{Precision: DefaultPrecision}

// Validate rejects configurations that would disable truncation.
func (c Context) Validate() error {
	if c.Precision < 1 {
		return fmt.Errorf("%w: got %d", ErrPrecision, c.Precision)
	}
	return nil
}

// Parse reads one base-10 numeral (integer, fractional or exponent form).
// The parsed value is exact; precision applies to arithmetic results only.
// Exponents beyond ±MaxExponent are rejected.
func (c Context) Parse(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, &ParseError{Field: field, Input: s, Err: errEmpty}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ParseError{Field: field, Input: s, Err: err}
	}
	if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return decimal.Decimal{}, &ParseError{Field: field, Input: s, Err: ErrExponentRange}
	}
	return d, nil
}

func (c Context) add(a, b decimal.Decimal) decimal.Decimal { return c.truncate(a.Add(b)) }
func (c Context) sub(a, b decimal.Decimal) decimal.Decimal { return c.truncate(a.Sub(b)) }
func (c Context) mul(a, b decimal.Decimal) decimal.Decimal { return c.truncate(a.Mul(b)) }

// descale divides a 1e18 fixed-point value down to its real magnitude.
func (c Context) descale(d decimal.Decimal) decimal.Decimal {
	return c.truncate(d.Shift(-ScaleExponent))
}

func (c Context) rescale(d decimal.Decimal) decimal.Decimal {
	return c.truncate(d.Shift(ScaleExponent))
}

// truncate drops coefficient digits beyond Precision, toward zero.
func (c Context) truncate(d decimal.Decimal) decimal.Decimal {
	if c.Precision <= 0 {
		return d
	}

	coef := d.Coefficient()
	digits := len(new(big.Int).Abs(coef).String())
	if digits <= c.Precision {
		return d
	}

	drop := digits - c.Precision
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(drop)), nil)
	// big.Int.Quo truncates toward zero for negative coefficients too.
	coef.Quo(coef, divisor)
	return decimal.NewFromBigInt(coef, d.Exponent()+int32(drop))
}

// integerPart truncates d toward zero; any fractional remainder is discarded.
func integerPart(d decimal.Decimal) *big.Int {
	return d.Truncate(0).BigInt()
}
