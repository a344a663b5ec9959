// Command accrual-vectors evaluates a JSON file of reference vectors.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"priceaccrual/internal/accrual"
	"priceaccrual/internal/storage"
	"priceaccrual/internal/vectors"
)

func main() {
	var (
		vectorFile = flag.String("vectors", "", "JSON file of reference vectors")
		check      = flag.Bool("check", false, "Exit non-zero if any vector differs from its expected word")
		record     = flag.Bool("record", false, "Persist successful quotes to Postgres (DB_* environment)")
		precision  = flag.Int("precision", accrual.DefaultPrecision, "Significant digits kept by decimal arithmetic")
	)
	flag.Parse()

	if *vectorFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -vectors is required")
		flag.Usage()
		os.Exit(1)
	}

	calc := accrual.Context{Precision: *precision}
	if err := calc.Validate(); err != nil {
		log.Fatalf("Invalid -precision: %v", err)
	}

	vs, err := vectors.ParseVectorFile(*vectorFile)
	if err != nil {
		log.Fatalf("Failed to load vectors: %v", err)
	}
	if len(vs) == 0 {
		log.Fatal("No vectors loaded")
	}

	outcomes := vectors.Evaluate(calc, vs)
	printOutcomes(os.Stdout, outcomes)

	if *record {
		if err := recordOutcomes(outcomes); err != nil {
			log.Fatalf("Failed to record quotes: %v", err)
		}
	}

	if *check {
		if n := vectors.Mismatches(outcomes); n > 0 {
			log.Fatalf("%d of %d vectors did not match", n, len(outcomes))
		}
	}
}

func printOutcomes(w io.Writer, outcomes []vectors.Outcome) {
	for _, o := range outcomes {
		var result string
		switch o.Kind {
		case vectors.KindOK:
			result = o.Quote.Word
		default:
			result = fmt.Sprintf("error(%s): %v", o.Kind, o.Err)
		}

		mark := ""
		if o.Checked && !o.Match {
			mark = "\tMISMATCH expected " + o.Vector.Expected
		}
		fmt.Fprintf(w, "%s\t%s%s\n", o.Vector.Name, result, mark)
	}
}

func recordOutcomes(outcomes []vectors.Outcome) error {
	store, err := storage.NewPostgresStore(storage.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Database: getEnv("DB_NAME", "accrual_db"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}

	ins := make([]accrual.Inputs, 0, len(outcomes))
	qs := make([]*accrual.Quote, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Quote == nil {
			continue
		}
		ins = append(ins, o.Vector.Inputs())
		qs = append(qs, o.Quote)
	}

	if err := store.RecordQuotes(ctx, ins, qs, "vectors"); err != nil {
		return err
	}
	log.Printf("[INFO] recorded %d quotes", len(qs))
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
