package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"priceaccrual/internal/accrual"

	_ "github.com/lib/pq"
)

// PostgresStore records accrual quotes in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// Config contains database connection parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN renders the lib/pq keyword/value connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// NewPostgresStore opens a pooled connection and verifies it.
func NewPostgresStore(config Config) (*PostgresStore, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// InitSchema creates the quote table if it does not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS accrual_quotes (
		id BIGSERIAL PRIMARY KEY,
		last_updated TEXT NOT NULL,
		current_timestamp_raw TEXT NOT NULL,
		interest_rate_raw TEXT NOT NULL,
		base_price_raw TEXT NOT NULL,
		time_elapsed TEXT NOT NULL,
		scaled_value NUMERIC(78, 0) NOT NULL,  -- uint256 fits in 78 digits
		word CHAR(66) NOT NULL,
		source TEXT NOT NULL,
		computed_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_accrual_quotes_computed_at ON accrual_quotes (computed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_accrual_quotes_word ON accrual_quotes (word);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// RecordQuote stores one successful computation.
func (s *PostgresStore) RecordQuote(ctx context.Context, in accrual.Inputs, q *accrual.Quote, source string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accrual_quotes
			(last_updated, current_timestamp_raw, interest_rate_raw, base_price_raw,
			 time_elapsed, scaled_value, word, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, in.LastUpdated, in.CurrentTimestamp, in.InterestRate, in.BasePrice,
		q.TimeElapsed.String(), q.Scaled.String(), q.Word, source)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// RecordQuotes stores a batch in one transaction.
func (s *PostgresStore) RecordQuotes(ctx context.Context, ins []accrual.Inputs, qs []*accrual.Quote, source string) error {
	if len(ins) != len(qs) {
		return fmt.Errorf("inputs/quotes length mismatch: %d vs %d", len(ins), len(qs))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accrual_quotes
			(last_updated, current_timestamp_raw, interest_rate_raw, base_price_raw,
			 time_elapsed, scaled_value, word, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, q := range qs {
		if q == nil {
			continue
		}
		in := ins[i]
		_, err := stmt.ExecContext(ctx, in.LastUpdated, in.CurrentTimestamp, in.InterestRate, in.BasePrice,
			q.TimeElapsed.String(), q.Scaled.String(), q.Word, source)
		if err != nil {
			return fmt.Errorf("failed to insert quote %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// RecentQuotes returns the newest quotes first.
func (s *PostgresStore) RecentQuotes(ctx context.Context, limit int) ([]QuoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, last_updated, current_timestamp_raw, interest_rate_raw, base_price_raw,
		       time_elapsed, scaled_value::TEXT, word, source, computed_at
		FROM accrual_quotes
		ORDER BY computed_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]QuoteRecord, 0, limit)
	for rows.Next() {
		var r QuoteRecord
		if err := rows.Scan(&r.ID, &r.Inputs.LastUpdated, &r.Inputs.CurrentTimestamp,
			&r.Inputs.InterestRate, &r.Inputs.BasePrice, &r.TimeElapsed, &r.ScaledValue,
			&r.Word, &r.Source, &r.ComputedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
