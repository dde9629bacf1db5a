// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package databroker publishes async-query and audit messages to NATS
// JetStream through Watermill, with a circuit breaker in front of the
// connection.
package databroker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/config"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
	"github.com/SRINI2410/iudx-resource-server/internal/metrics"
)

// Topics the resource server publishes to.
const (
	// TopicAsyncQuery carries submitted async searches to the worker.
	TopicAsyncQuery = "async-query"

	// TopicAuditing carries metering records.
	TopicAuditing = "auditing"
)

// routingKeyHeader carries the broker routing key in message metadata.
const routingKeyHeader = "routing-key"

// Publisher wraps a Watermill NATS publisher with circuit breaker
// protection and a per-publish timeout.
type Publisher struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[any]
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewPublisher connects to the broker and prepares the JetStream
// publisher. The stream itself is provisioned by the deployment, not
// the server.
func NewPublisher(cfg config.BrokerConfig) (*Publisher, error) {
	logger := newWatermillLogger()

	pub, err := wmNats.NewPublisher(publisherConfig(cfg, logger), logger)
	if err != nil {
		return nil, fmt.Errorf("create broker publisher: %w", err)
	}

	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "broker-publish",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Publisher{publisher: pub, breaker: breaker, timeout: timeout}, nil
}

// publisherConfig builds the Watermill NATS configuration. Both topics
// are subjects of the configured JetStream stream, which the deployment
// provisions; publishes assert the stream so a misrouted subject fails
// loudly instead of landing in core NATS.
func publisherConfig(cfg config.BrokerConfig, logger watermill.LoggerAdapter) wmNats.PublisherConfig {
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("broker disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("broker reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	publishOpts := []natsgo.PubOpt{
		natsgo.RetryAttempts(3),
		natsgo.RetryWait(100 * time.Millisecond),
	}
	if cfg.Stream != "" {
		publishOpts = append(publishOpts, natsgo.ExpectStream(cfg.Stream))
	}

	return wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:       false,
			AutoProvision:  false,
			TrackMsgId:     true,
			PublishOptions: publishOpts,
		},
	}
}

// Publish sends a payload to a topic under a routing key. Failures,
// including an open breaker or a timeout, surface as Upstream.
func (p *Publisher) Publish(ctx context.Context, topic, routingKey string, payload []byte) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return common.NewError(common.KindUpstream, "broker publisher is closed")
	}
	p.mu.RUnlock()

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(routingKeyHeader, routingKey)
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := p.breaker.Execute(func() (any, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
		done <- err
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		metrics.RecordBrokerPublish(topic, false)
		return common.WrapError(common.KindUpstream, "broker unreachable", err)
	}
	metrics.RecordBrokerPublish(topic, true)
	return nil
}

// Close shuts the publisher down. Further publishes fail fast.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}
