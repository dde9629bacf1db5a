// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package database persists async query jobs in DuckDB over database/sql.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/SRINI2410/iudx-resource-server/internal/config"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
)

// schema creates the job table on first boot. CREATE IF NOT EXISTS
// keeps restarts idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS async_jobs (
    id          UUID NOT NULL PRIMARY KEY,
    search_id   UUID NOT NULL UNIQUE,
    request_id  VARCHAR NOT NULL,
    user_id     VARCHAR NOT NULL,
    status      VARCHAR NOT NULL,
    progress    DOUBLE NOT NULL,
    query       VARCHAR NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT current_timestamp
);
CREATE INDEX IF NOT EXISTS idx_async_jobs_request ON async_jobs (request_id);
`

// DB wraps the DuckDB connection.
type DB struct {
	conn         *sql.DB
	queryTimeout time.Duration
}

// New opens the job database and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// DuckDB is an embedded engine; a single writer connection avoids
	// write-write conflicts.
	conn.SetMaxOpenConns(1)

	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	db := &DB{conn: conn, queryTimeout: timeout}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}

	logging.Info().Str("path", cfg.Path).Msg("job database ready")
	return db, nil
}

func (db *DB) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), db.queryTimeout)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
