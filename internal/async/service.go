// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package async

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/database"
	"github.com/SRINI2410/iudx-resource-server/internal/databroker"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
	"github.com/SRINI2410/iudx-resource-server/internal/metering"
)

// JobStore is the persistence surface the service needs.
type JobStore interface {
	InsertJob(ctx context.Context, job database.Job) error
	JobBySearchID(ctx context.Context, searchID string) (*database.Job, error)
}

// BrokerPublisher hands submitted queries to the worker.
type BrokerPublisher interface {
	Publish(ctx context.Context, topic, routingKey string, payload []byte) error
}

// FilterResolver answers which search filters a resource id allows.
type FilterResolver interface {
	ApplicableFilters(ctx context.Context, id string) ([]string, error)
}

// Auditor records successful submissions.
type Auditor interface {
	PublishAsync(rec metering.Record)
}

// SubmitInput is one validated, authorized async search.
type SubmitInput struct {
	// Query is the canonical query document built from request params.
	Query map[string]any

	// ResourceID is the catalogue item being searched.
	ResourceID string

	// UserID is the authenticated caller's sub claim.
	UserID string

	// InstanceID is the serving host, from the request Host header.
	InstanceID string

	// Endpoint is the API path, recorded in the audit trail.
	Endpoint string
}

// StatusResult is one job's current state.
type StatusResult struct {
	SearchID string  `json:"searchId"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

// workerMessage is the payload handed to the async query worker.
type workerMessage struct {
	SearchID  string         `json:"searchId"`
	RequestID string         `json:"requestId"`
	User      string         `json:"user"`
	Query     map[string]any `json:"query"`
}

// Service implements async search submission and status lookup.
// Submission is strictly ordered: the job row is persisted before the
// broker publish, and the audit record goes out only after the publish
// succeeds. A publish failure surfaces to the caller; the persisted
// row stays behind for the worker to reconcile by requestId.
type Service struct {
	store     JobStore
	publisher BrokerPublisher
	filters   FilterResolver
	auditor   Auditor
}

// NewService wires the submission service.
func NewService(store JobStore, publisher BrokerPublisher, filters FilterResolver, auditor Auditor) *Service {
	return &Service{store: store, publisher: publisher, filters: filters, auditor: auditor}
}

// Submit persists and dispatches one async search, returning the
// searchId the caller polls with.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (string, error) {
	filters, err := s.filters.ApplicableFilters(ctx, in.ResourceID)
	if err != nil {
		return "", err
	}

	query := make(map[string]any, len(in.Query)+3)
	for k, v := range in.Query {
		query[k] = v
	}
	query["instanceID"] = in.InstanceID
	query["applicableFilters"] = filters
	query["sub"] = in.UserID

	requestID, err := RequestID(query)
	if err != nil {
		return "", common.WrapError(common.KindInternal, "failed to fingerprint query", err)
	}
	searchID := uuid.New().String()

	canonical, err := CanonicalJSON(query)
	if err != nil {
		return "", common.WrapError(common.KindInternal, "failed to encode query", err)
	}

	job := database.Job{
		ID:        uuid.New().String(),
		SearchID:  searchID,
		RequestID: requestID,
		UserID:    in.UserID,
		Status:    database.StatusSubmitted,
		Progress:  0.0,
		Query:     string(canonical),
	}
	if err := s.store.InsertJob(ctx, job); err != nil {
		return "", err
	}

	payload, err := json.Marshal(workerMessage{
		SearchID:  searchID,
		RequestID: requestID,
		User:      in.UserID,
		Query:     query,
	})
	if err != nil {
		return "", common.WrapError(common.KindInternal, "failed to encode worker message", err)
	}
	if err := s.publisher.Publish(ctx, databroker.TopicAsyncQuery, "#", payload); err != nil {
		logger := logging.Ctx(ctx)
		logger.Error().Err(err).
			Str("search_id", searchID).
			Msg("publish failed after persist, row left for reconciliation")
		return "", err
	}

	s.auditor.PublishAsync(metering.Record{
		UserID:       in.UserID,
		ID:           in.ResourceID,
		API:          in.Endpoint,
		ResponseSize: 0,
	})

	logger := logging.Ctx(ctx)
	logger.Info().
		Str("search_id", searchID).
		Str("request_id", requestID).
		Msg("async query submitted")
	return searchID, nil
}

// Status looks up a job by searchId for its owner. A job owned by a
// different user is Forbidden, not NotFound, so owners cannot probe
// for foreign searchIds.
func (s *Service) Status(ctx context.Context, searchID, userID string) (*StatusResult, error) {
	job, err := s.store.JobBySearchID(ctx, searchID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, common.NewError(common.KindForbidden, "user is not authorised to access this searchID")
	}
	return &StatusResult{
		SearchID: job.SearchID,
		Status:   job.Status,
		Progress: job.Progress,
	}, nil
}
