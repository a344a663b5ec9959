package accrual

import (
	"math/big"

	"github.com/shopspring/decimal"

	"priceaccrual/internal/abiword"
)

// Input field names, in argv order.
const (
	FieldLastUpdated      = "lastUpdated"
	FieldCurrentTimestamp = "currentTimestamp"
	FieldInterestRate     = "interestRate"
	FieldBasePrice        = "basePrice"
)

var fieldOrder = []string{FieldLastUpdated, FieldCurrentTimestamp, FieldInterestRate, FieldBasePrice}

// Inputs holds the four raw decimal strings of one accrual request.
//
// InterestRate and BasePrice are 1e18 fixed-point values; the timestamps are
// plain numbers in whatever unit the rate is expressed per.
type Inputs struct {
	LastUpdated      string `json:"last_updated"`
	CurrentTimestamp string `json:"current_timestamp"`
	InterestRate     string `json:"interest_rate"`
	BasePrice        string `json:"base_price"`
}

// ParseInputs reads the four positional arguments.
// Arguments past the fourth are ignored.
func ParseInputs(args []string) (Inputs, error) {
	if len(args) < len(fieldOrder) {
		return Inputs{}, &ParseError{Field: fieldOrder[len(args)], Err: errMissing}
	}
	return Inputs{
		LastUpdated:      args[0],
		CurrentTimestamp: args[1],
		InterestRate:     args[2],
		BasePrice:        args[3],
	}, nil
}

// Quote is the outcome of one linear accrual.
type Quote struct {
	InterestRate decimal.Decimal // descaled
	BasePrice    decimal.Decimal // descaled
	TimeElapsed  decimal.Decimal
	Value        decimal.Decimal // basePrice * (1 + rate * elapsed), unscaled
	Scaled       *big.Int        // Value * 1e18, truncated toward zero
	Word         string          // ABI uint256 word, 0x-prefixed
}

// Quote computes
//
//	floor(basePrice * (1 + interestRate * (currentTimestamp - lastUpdated)) * 1e18)
//
// and encodes it as a uint256 word. Simple interest, not compounded.
//
// Elapsed time is not clamped: a current timestamp before lastUpdated lowers
// the value, and once the bracketed factor goes negative the result fails
// with an *EncodingError. Malformed inputs fail with a *ParseError, checked in
// argv order.
func (c Context) Quote(in Inputs) (*Quote, error) {
	t0, err := c.Parse(FieldLastUpdated, in.LastUpdated)
	if err != nil {
		return nil, err
	}
	t1, err := c.Parse(FieldCurrentTimestamp, in.CurrentTimestamp)
	if err != nil {
		return nil, err
	}
	rawRate, err := c.Parse(FieldInterestRate, in.InterestRate)
	if err != nil {
		return nil, err
	}
	rawBase, err := c.Parse(FieldBasePrice, in.BasePrice)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		InterestRate: c.descale(rawRate),
		BasePrice:    c.descale(rawBase),
		TimeElapsed:  c.sub(t1, t0),
	}

	factor := c.add(decimal.NewFromInt(1), c.mul(q.InterestRate, q.TimeElapsed))
	q.Value = c.mul(q.BasePrice, factor)
	q.Scaled = integerPart(c.rescale(q.Value))

	word, err := abiword.EncodeUint256Hex(q.Scaled)
	if err != nil {
		return nil, &EncodingError{Value: q.Scaled, Err: err}
	}
	q.Word = word

	return q, nil
}

// Accrue runs DefaultContext over positional arguments and returns the word.
func Accrue(args []string) (string, error) {
	in, err := ParseInputs(args)
	if err != nil {
		return "", err
	}
	q, err := DefaultContext.Quote(in)
	if err != nil {
		return "", err
	}
	return q.Word, nil
}
