// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package metrics exposes Prometheus instrumentation for the request
// pipeline: HTTP latency, auth outcomes, cache efficiency, broker
// publishes, and job persistence.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rs_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Auth pipeline metrics
	AuthDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rs_auth_decisions_total",
			Help: "Token introspection outcomes by stage and result",
		},
		[]string{"stage", "result"},
	)

	// Catalogue cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rs_cache_hits_total",
			Help: "Access-policy cache hits by cache name",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rs_cache_misses_total",
			Help: "Access-policy cache misses by cache name",
		},
		[]string{"cache"},
	)

	CatalogueRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rs_catalogue_request_duration_seconds",
			Help:    "Duration of catalogue lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Async submission metrics
	BrokerPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rs_broker_publishes_total",
			Help: "Broker publish attempts by topic and result",
		},
		[]string{"topic", "result"},
	)

	JobInserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rs_job_inserts_total",
			Help: "Async job row inserts by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, path string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordAuthDecision records one pipeline stage outcome.
func RecordAuthDecision(stage string, ok bool) {
	AuthDecisions.WithLabelValues(stage, resultLabel(ok)).Inc()
}

// RecordCacheLookup records one cache lookup.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordCatalogueRequest records one catalogue round trip.
func RecordCatalogueRequest(d time.Duration) {
	CatalogueRequestDuration.Observe(d.Seconds())
}

// RecordBrokerPublish records one publish attempt.
func RecordBrokerPublish(topic string, ok bool) {
	BrokerPublishes.WithLabelValues(topic, resultLabel(ok)).Inc()
}

// RecordJobInsert records one job row insert.
func RecordJobInsert(ok bool) {
	JobInserts.WithLabelValues(resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
