package storage

import (
	"context"
	"time"

	"priceaccrual/internal/accrual"
)

// QuoteRecord is one persisted accrual computation.
type QuoteRecord struct {
	ID          int64          `json:"id"`
	Inputs      accrual.Inputs `json:"inputs"`
	TimeElapsed string         `json:"time_elapsed"`
	ScaledValue string         `json:"scaled_value"`
	Word        string         `json:"word"`
	Source      string         `json:"source"`
	ComputedAt  time.Time      `json:"computed_at"`
}

// Recorder persists computed quotes for later inspection.
type Recorder interface {
	RecordQuote(ctx context.Context, in accrual.Inputs, q *accrual.Quote, source string) error
	RecentQuotes(ctx context.Context, limit int) ([]QuoteRecord, error)
	Close() error
}

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordQuote(_ context.Context, _ accrual.Inputs, _ *accrual.Quote, _ string) error {
	return nil
}

func (n *NoopRecorder) RecentQuotes(_ context.Context, _ int) ([]QuoteRecord, error) {
	return []QuoteRecord{}, nil
}

func (n *NoopRecorder) Close() error { return nil }
