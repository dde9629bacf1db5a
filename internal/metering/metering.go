// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package metering emits per-request audit records to the auditing
// topic. Records are advisory: losing one never fails the request
// that produced it.
package metering

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/SRINI2410/iudx-resource-server/internal/databroker"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
)

// BrokerPublisher is the broker surface metering needs.
type BrokerPublisher interface {
	Publish(ctx context.Context, topic, routingKey string, payload []byte) error
}

// Record is one audit entry.
type Record struct {
	UserID       string `json:"userid"`
	ID           string `json:"id"`
	API          string `json:"api"`
	ResponseSize int    `json:"response_size"`
}

// Service publishes audit records.
type Service struct {
	publisher BrokerPublisher
	timeout   time.Duration
}

// NewService creates the audit service over a broker publisher.
func NewService(publisher BrokerPublisher) *Service {
	return &Service{publisher: publisher, timeout: 5 * time.Second}
}

// Publish sends one audit record, returning any broker failure.
func (s *Service) Publish(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, databroker.TopicAuditing, "#", payload)
}

// PublishAsync sends an audit record without blocking the caller.
// Failures are logged and swallowed.
func (s *Service) PublishAsync(rec Record) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Publish(ctx, rec); err != nil {
			logging.Error().Err(err).
				Str("userid", rec.UserID).
				Str("api", rec.API).
				Msg("failed to publish audit record")
		}
	}()
}
