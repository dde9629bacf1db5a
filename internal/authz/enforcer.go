// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package authz decides whether a token role may call a method on an
// API endpoint. The role/endpoint/method matrix is a Casbin policy,
// embedded so the binary carries its own access rules; a file path can
// override it for deployment-specific policies.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/SRINI2410/iudx-resource-server/internal/logging"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// EnforcerConfig holds configuration for the policy enforcer.
type EnforcerConfig struct {
	// PolicyPath optionally overrides the embedded policy.
	PolicyPath string

	// CacheTTL is how long enforcement decisions stay cached.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns the default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{CacheTTL: 5 * time.Minute}
}

// Enforcer answers role/method/endpoint authorization questions with a
// decision cache in front of the Casbin matcher.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	cache    *decisionCache
}

// NewEnforcer creates the enforcer from the embedded model and policy,
// or from a policy file when one is configured.
func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load authorization model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if config.PolicyPath != "" && fileExists(config.PolicyPath) {
		logging.Info().Str("path", config.PolicyPath).Msg("loading authorization policy from file")
		adapter := fileadapter.NewAdapter(config.PolicyPath)
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create authorization enforcer: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		cache:    newDecisionCache(config.CacheTTL),
	}, nil
}

// loadEmbeddedPolicy parses and loads the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch parts[0] {
		case "p":
			if len(parts) >= 4 {
				if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
					return fmt.Errorf("add policy %v: %w", parts[1:], err)
				}
			}
		case "g":
			if len(parts) >= 3 {
				if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
					return fmt.Errorf("add grouping policy %v: %w", parts[1:], err)
				}
			}
		}
	}
	return nil
}

// Authorize reports whether role may call method on endpoint.
func (e *Enforcer) Authorize(role, method, endpoint string) (bool, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	method = strings.ToUpper(method)

	if allowed, ok := e.cache.get(role, endpoint, method); ok {
		return allowed, nil
	}

	allowed, err := e.enforcer.Enforce(role, endpoint, method)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}

	e.cache.set(role, endpoint, method, allowed)
	return allowed, nil
}

// Close stops the decision cache's cleanup loop.
func (e *Enforcer) Close() {
	e.cache.stop()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
