package main

import (
	"bytes"
	"errors"
	"testing"

	"priceaccrual/internal/accrual"
)

func TestRun_Success(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"1000", "1100", "500000000000000000", "2000000000000000000000"}, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := "0x0000000000000000000000000000000000000000000015996e5b3cd6b3c00000\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

// TestRun_Failures verifies failures produce no stdout and the right exit code.
func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"non-numeric", []string{"abc", "1100", "500000000000000000", "2000000000000000000000"}, exitParse},
		{"missing arguments", []string{"1000", "1100"}, exitParse},
		{"no arguments", nil, exitParse},
		{"negative factor", []string{"100", "0", "500000000000000000", "1000000000000000000"}, exitEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, &out)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if out.Len() != 0 {
				t.Errorf("expected empty stdout, got %q", out.String())
			}
			if code := exitCode(err); code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
		})
	}
}

func TestExitCode_ParseError(t *testing.T) {
	err := &accrual.ParseError{Field: accrual.FieldBasePrice, Input: "x", Err: errors.New("bad")}
	if code := exitCode(err); code != exitParse {
		t.Errorf("expected %d, got %d", exitParse, code)
	}
}
