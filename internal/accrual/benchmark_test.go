package accrual

import (
	"math/big"
	"testing"

	"priceaccrual/internal/abiword"
)

// BenchmarkQuote measures one full parse, accrue and encode cycle
func BenchmarkQuote(b *testing.B) {
	in := Inputs{
		LastUpdated:      "1699999999",
		CurrentTimestamp: "1700086399",
		InterestRate:     "3170979198",
		BasePrice:        "2000000000000000000000",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DefaultContext.Quote(in); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkQuoteWide exercises the precision cut on inputs wider than 64 digits
func BenchmarkQuoteWide(b *testing.B) {
	in := Inputs{
		LastUpdated:      "1699999999",
		CurrentTimestamp: "1700086399",
		InterestRate:     "0.0000000000000000000000000000000000000000000000000000000000000000001234567",
		BasePrice:        "1234567890123456789012345678901234567890.123456789012345678901234567890",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DefaultContext.Quote(in); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEncodeUint256 isolates the ABI packing cost
func BenchmarkEncodeUint256(b *testing.B) {
	v, _ := new(big.Int).SetString("102000000000000000000000", 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := abiword.EncodeUint256Hex(v); err != nil {
			b.Fatal(err)
		}
	}
}
