package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// listenAddr is the HTTP bind address, ADDR or :8080.
func listenAddr() string {
	if addr := os.Getenv("ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

// historyDBPath is the SQLite file holding the calculation history,
// HISTORY_DB_PATH or data/history.db. The directory is created on first run.
func historyDBPath() string {
	if path := os.Getenv("HISTORY_DB_PATH"); path != "" {
		return path
	}
	return "data/history.db"
}
