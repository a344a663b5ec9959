package main

import (
	"bytes"
	"strings"
	"testing"

	"priceaccrual/internal/accrual"
	"priceaccrual/internal/vectors"
)

func TestPrintOutcomes(t *testing.T) {
	outcomes := vectors.Evaluate(accrual.DefaultContext, []vectors.Vector{
		{Name: "ok", LastUpdated: "5", CurrentTimestamp: "5", InterestRate: "0", BasePrice: "1"},
		{Name: "bad", LastUpdated: "x", CurrentTimestamp: "5", InterestRate: "0", BasePrice: "1"},
		{
			Name: "wrong", LastUpdated: "5", CurrentTimestamp: "5", InterestRate: "0", BasePrice: "1",
			Expected: "0x" + strings.Repeat("0", 64),
		},
	})

	var buf bytes.Buffer
	printOutcomes(&buf, outcomes)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	one := "0x" + strings.Repeat("0", 63) + "1"
	if lines[0] != "ok\t"+one {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "bad\terror(parse): ") {
		t.Errorf("unexpected line %q", lines[1])
	}
	if !strings.Contains(lines[2], "MISMATCH") {
		t.Errorf("expected mismatch marker in %q", lines[2])
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("ACCRUAL_TEST_PORT", "6543")
	if got := getEnvInt("ACCRUAL_TEST_PORT", 1); got != 6543 {
		t.Errorf("expected 6543, got %d", got)
	}

	t.Setenv("ACCRUAL_TEST_PORT", "not-a-number")
	if got := getEnvInt("ACCRUAL_TEST_PORT", 1); got != 1 {
		t.Errorf("expected default 1, got %d", got)
	}
}
