// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SRINI2410/iudx-resource-server/internal/logging"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ngsi-ld/v1/async/status", nil))

	if seen == "" {
		t.Fatal("request id not propagated through context")
	}
	if got := rr.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("header X-Request-ID = %q, context id = %q", got, seen)
	}
}

func TestRequestIDKeepsClientID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen != "client-supplied" {
		t.Errorf("context id = %q, want client-supplied", seen)
	}
	if got := rr.Header().Get("X-Request-ID"); got != "client-supplied" {
		t.Errorf("header X-Request-ID = %q, want client-supplied", got)
	}
}

func TestStatusRecorderDefaultsToOK(t *testing.T) {
	h := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handler writes a body without an explicit WriteHeader.
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestAccessLogPassesThroughStatus(t *testing.T) {
	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ngsi-ld/v1/async/search", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
}
