// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package authz

import (
	"testing"
	"time"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(&EnforcerConfig{CacheTTL: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestAuthorizeMatrix(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		role     string
		method   string
		endpoint string
		allowed  bool
	}{
		{"consumer", "GET", "/ngsi-ld/v1/async/search", true},
		{"consumer", "GET", "/ngsi-ld/v1/async/status", true},
		{"consumer", "GET", "/ngsi-ld/v1/consumer/audit", true},
		{"consumer", "POST", "/ngsi-ld/v1/subscription", true},
		{"consumer", "DELETE", "/ngsi-ld/v1/subscription", true},
		{"consumer", "POST", "/ngsi-ld/v1/async/search", false},
		{"consumer", "GET", "/ngsi-ld/v1/provider/audit", false},
		{"consumer", "POST", "/admin/revokeToken", false},

		{"provider", "GET", "/ngsi-ld/v1/provider/audit", true},
		{"provider", "POST", "/ngsi-ld/v1/ingestion", true},
		{"provider", "DELETE", "/admin/resourceattribute", true},
		{"provider", "GET", "/ngsi-ld/v1/async/search", false},

		{"delegate", "GET", "/ngsi-ld/v1/async/search", true},
		{"delegate", "GET", "/ngsi-ld/v1/provider/audit", true},
		{"delegate", "POST", "/admin/revokeToken", false},

		{"admin", "POST", "/admin/revokeToken", true},
		{"admin", "DELETE", "/admin/resourceattribute", true},
		{"admin", "POST", "/management/user/resetPassword", true},
		{"admin", "GET", "/ngsi-ld/v1/async/search", false},

		{"nobody", "GET", "/ngsi-ld/v1/async/search", false},
	}

	for _, tt := range tests {
		got, err := e.Authorize(tt.role, tt.method, tt.endpoint)
		if err != nil {
			t.Fatalf("Authorize(%s, %s, %s) error: %v", tt.role, tt.method, tt.endpoint, err)
		}
		if got != tt.allowed {
			t.Errorf("Authorize(%s, %s, %s) = %v; want %v", tt.role, tt.method, tt.endpoint, got, tt.allowed)
		}
	}
}

func TestAuthorizeNormalizesInput(t *testing.T) {
	e := newTestEnforcer(t)

	allowed, err := e.Authorize(" Consumer ", "get", "/ngsi-ld/v1/async/search")
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Fatal("role and method matching must be case-insensitive")
	}
}

func TestAuthorizeCachesDecisions(t *testing.T) {
	e := newTestEnforcer(t)

	first, err := e.Authorize("consumer", "GET", "/ngsi-ld/v1/async/search")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Authorize("consumer", "GET", "/ngsi-ld/v1/async/search")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("cached decision differs from first enforcement")
	}

	if _, ok := e.cache.get("consumer", "/ngsi-ld/v1/async/search", "GET"); !ok {
		t.Fatal("decision should be cached after first enforcement")
	}
}
