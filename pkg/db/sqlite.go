package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// NewSQLite opens (creating if needed) the SQLite file at path.
// Foreign keys stay off: milestone and history references are not enforced.
func NewSQLite(path string, logger *zap.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	logger.Info("Opening SQLite store", zap.String("path", path))

	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		logger.Error("SQLite ping failed", zap.Error(err))
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return conn, nil
}
