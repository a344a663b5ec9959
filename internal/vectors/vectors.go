package vectors

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"priceaccrual/internal/accrual"
)

// Vector is one reference case as stored in a vector file.
//
// Numeric fields are strings so that wide fixed-point values survive JSON
// untouched. Expected is optional; when set it is the 0x word the case must
// produce.
type Vector struct {
	Name             string `json:"name,omitempty"`
	LastUpdated      string `json:"last_updated"`
	CurrentTimestamp string `json:"current_timestamp"`
	InterestRate     string `json:"interest_rate"`
	BasePrice        string `json:"base_price"`
	Expected         string `json:"expected,omitempty"`
}

// Inputs converts the vector to calculator inputs.
func (v Vector) Inputs() accrual.Inputs {
	return accrual.Inputs{
		LastUpdated:      v.LastUpdated,
		CurrentTimestamp: v.CurrentTimestamp,
		InterestRate:     v.InterestRate,
		BasePrice:        v.BasePrice,
	}
}

// ParseVectorFile loads a JSON array of vectors.
//
// Guarantees:
// - fails on a missing or empty file and on malformed JSON
// - fails if any vector omits one of the four inputs
// - unnamed vectors are named case-<index>; duplicate names are rejected
// - file order is preserved
func ParseVectorFile(path string) ([]Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty: %s", path)
	}

	var vs []Vector
	if err := json.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from %s: %w", path, err)
	}

	seen := make(map[string]int, len(vs))
	for i := range vs {
		if vs[i].Name == "" {
			vs[i].Name = fmt.Sprintf("case-%d", i)
		}
		if err := validate(vs[i]); err != nil {
			return nil, fmt.Errorf("invalid vector %q at index %d: %w", vs[i].Name, i, err)
		}
		if prev, ok := seen[vs[i].Name]; ok {
			return nil, fmt.Errorf("duplicate vector name %q at index %d and %d", vs[i].Name, prev, i)
		}
		seen[vs[i].Name] = i
	}

	return vs, nil
}

func validate(v Vector) error {
	fields := []struct {
		name  string
		value string
	}{
		{"last_updated", v.LastUpdated},
		{"current_timestamp", v.CurrentTimestamp},
		{"interest_rate", v.InterestRate},
		{"base_price", v.BasePrice},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("missing %s", f.name)
		}
	}
	if v.Expected != "" && !strings.HasPrefix(v.Expected, "0x") {
		return fmt.Errorf("expected word must be 0x-prefixed, got '%s'", v.Expected)
	}
	return nil
}

// Outcome kinds.
const (
	KindOK       = "ok"
	KindParse    = "parse"
	KindEncoding = "encoding"
)

// Outcome is the result of evaluating one vector.
type Outcome struct {
	Vector  Vector
	Quote   *accrual.Quote
	Kind    string
	Err     error
	Checked bool // Expected was set
	Match   bool
}

// Evaluate computes every vector with ctx. It never stops early.
func Evaluate(ctx accrual.Context, vs []Vector) []Outcome {
	outcomes := make([]Outcome, 0, len(vs))
	for _, v := range vs {
		o := Outcome{Vector: v, Checked: v.Expected != ""}

		q, err := ctx.Quote(v.Inputs())
		switch {
		case err == nil:
			o.Kind = KindOK
			o.Quote = q
			o.Match = o.Checked && strings.EqualFold(q.Word, v.Expected)
		case isEncoding(err):
			o.Kind = KindEncoding
			o.Err = err
		default:
			o.Kind = KindParse
			o.Err = err
		}

		outcomes = append(outcomes, o)
	}
	return outcomes
}

// Mismatches counts checked vectors whose result differs from Expected.
func Mismatches(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Checked && !o.Match {
			n++
		}
	}
	return n
}

func isEncoding(err error) bool {
	var encErr *accrual.EncodingError
	return errors.As(err, &encErr)
}
