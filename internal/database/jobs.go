// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/metrics"
)

// Job lifecycle states.
const (
	StatusSubmitted  = "SUBMITTED"
	StatusInProgress = "IN_PROGRESS"
	StatusComplete   = "COMPLETE"
	StatusFailed     = "FAILED"
)

// Job is one async query submission.
type Job struct {
	ID        string
	SearchID  string
	RequestID string
	UserID    string
	Status    string
	Progress  float64
	Query     string
	CreatedAt time.Time
}

// InsertJob persists a freshly submitted job row.
func (db *DB) InsertJob(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO async_jobs (id, search_id, request_id, user_id, status, progress, query)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.SearchID, job.RequestID, job.UserID, job.Status, job.Progress, job.Query)
	if err != nil {
		metrics.RecordJobInsert(false)
		return common.WrapError(common.KindInternal, "failed to persist query", err)
	}
	metrics.RecordJobInsert(true)
	return nil
}

// JobBySearchID fetches a job row by its search id. Returns NotFound
// when no such job exists.
func (db *DB) JobBySearchID(ctx context.Context, searchID string) (*Job, error) {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT id, search_id, request_id, user_id, status, progress, query, created_at
		 FROM async_jobs WHERE search_id = ?`, searchID)

	var job Job
	err := row.Scan(&job.ID, &job.SearchID, &job.RequestID, &job.UserID,
		&job.Status, &job.Progress, &job.Query, &job.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewError(common.KindNotFound, "no search with given searchID found")
	}
	if err != nil {
		return nil, common.WrapError(common.KindInternal, "failed to look up search", err)
	}
	return &job, nil
}

// UpdateJobStatus advances a job's lifecycle state. The worker drives
// this as it executes the query.
func (db *DB) UpdateJobStatus(ctx context.Context, searchID, status string, progress float64) error {
	ctx, cancel := context.WithTimeout(ctx, db.queryTimeout)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE async_jobs SET status = ?, progress = ? WHERE search_id = ?`,
		status, progress, searchID)
	if err != nil {
		return common.WrapError(common.KindInternal, "failed to update search status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewError(common.KindNotFound, "no search with given searchID found")
	}
	return nil
}
