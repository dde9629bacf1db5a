// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package auth

import (
	"time"

	"github.com/SRINI2410/iudx-resource-server/internal/cache"
	"github.com/SRINI2410/iudx-resource-server/internal/config"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
)

// RevocationRegistry tracks token revocations by subject. The registry
// is a bounded cache: an absent entry means "not revoked", so eviction
// only widens access back to what the auth server issued.
type RevocationRegistry struct {
	cache *cache.LRUCache[time.Time]
}

// NewRevocationRegistry creates a registry sized from configuration.
func NewRevocationRegistry(cfg config.AuthConfig) *RevocationRegistry {
	return &RevocationRegistry{
		cache: cache.NewLRUCache[time.Time](cfg.RevocationCacheSize, cfg.RevocationCacheTTL),
	}
}

// Revoke records that tokens issued to sub before the given instant are
// no longer valid.
func (r *RevocationRegistry) Revoke(sub string, at time.Time) {
	logging.Info().Str("sub", sub).Time("revoked_at", at).Msg("token revoked")
	r.cache.Add(sub, at)
}

// IsRevoked reports whether a token issued to sub at issuedAt has been
// revoked since.
func (r *RevocationRegistry) IsRevoked(sub string, issuedAt time.Time) bool {
	revokedAt, ok := r.cache.Get(sub)
	if !ok {
		return false
	}
	return issuedAt.Before(revokedAt)
}
