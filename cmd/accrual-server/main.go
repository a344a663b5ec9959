// Command accrual-server serves accrual quotes over HTTP.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"priceaccrual/internal/accrual"
	"priceaccrual/internal/storage"
)

func main() {
	cfg := ServerConfig{
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 100),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 200),
		Precision:      getEnvInt("DECIMAL_PRECISION", accrual.DefaultPrecision),
	}
	if err := (accrual.Context{Precision: cfg.Precision}).Validate(); err != nil {
		log.Fatalf("Invalid DECIMAL_PRECISION: %v", err)
	}

	recorder := openRecorder()
	defer recorder.Close()

	server := NewAPIServer(recorder, cfg)

	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Accrual server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped")
}

// openRecorder connects to Postgres when DB_HOST is set.
func openRecorder() storage.Recorder {
	host := os.Getenv("DB_HOST")
	if host == "" {
		log.Printf("[INFO] DB_HOST not set, quotes will not be recorded")
		return storage.NewNoopRecorder()
	}

	store, err := storage.NewPostgresStore(storage.Config{
		Host:     host,
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Database: getEnv("DB_NAME", "accrual_db"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}

	return store
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
