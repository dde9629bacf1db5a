// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package metering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/SRINI2410/iudx-resource-server/internal/databroker"
)

type fakePublisher struct {
	mu      sync.Mutex
	topic   string
	key     string
	payload []byte
	calls   int
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, topic, routingKey string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.topic = topic
	f.key = routingKey
	f.payload = append([]byte(nil), payload...)
	return f.err
}

func (f *fakePublisher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPublishRecord(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(pub)

	rec := Record{
		UserID:       "user-1",
		ID:           "domain/sha/rs.example.org/group/item",
		API:          "/ngsi-ld/v1/async/search",
		ResponseSize: 42,
	}
	if err := svc.Publish(context.Background(), rec); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if pub.topic != databroker.TopicAuditing {
		t.Errorf("topic = %q, want %q", pub.topic, databroker.TopicAuditing)
	}
	if pub.key != "#" {
		t.Errorf("routing key = %q, want #", pub.key)
	}

	var got map[string]any
	if err := json.Unmarshal(pub.payload, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got["userid"] != "user-1" {
		t.Errorf("userid = %v", got["userid"])
	}
	if got["api"] != "/ngsi-ld/v1/async/search" {
		t.Errorf("api = %v", got["api"])
	}
	if got["response_size"] != float64(42) {
		t.Errorf("response_size = %v", got["response_size"])
	}
}

func TestPublishReturnsBrokerError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(pub)

	if err := svc.Publish(context.Background(), Record{UserID: "u"}); err == nil {
		t.Fatal("expected error from failing publisher")
	}
}

func TestPublishAsyncSwallowsFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(pub)

	svc.PublishAsync(Record{UserID: "u", API: "/ngsi-ld/v1/async/search"})

	deadline := time.Now().Add(2 * time.Second)
	for pub.callCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("publisher never called")
		}
		time.Sleep(5 * time.Millisecond)
	}
	// Nothing to assert beyond the call happening: the failure must not
	// propagate or panic.
}
