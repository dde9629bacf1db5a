// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package catalogue

import (
	"context"
	"strings"

	"github.com/SRINI2410/iudx-resource-server/internal/cache"
	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/config"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
	"github.com/SRINI2410/iudx-resource-server/internal/metrics"
)

// Access policies a catalogue item can declare.
const (
	PolicyOpen   = "OPEN"
	PolicySecure = "SECURE"
	PolicyPII    = "PII"
)

// defaultFilters apply when a catalogue item declares none.
var defaultFilters = []string{"ATTR", "TEMPORAL", "SPATIAL"}

// Service answers access-policy questions from two bounded caches, falling
// back to the catalogue client on a miss. Entries expire a fixed interval
// after their last access, so hot ids stay resident.
type Service struct {
	client *Client

	// groupCache maps resource-group id to its access policy.
	groupCache *cache.LRUCache[string]
	// resourceCache maps full resource id to its effective policy. An
	// entry doubles as proof the id exists in the catalogue.
	resourceCache *cache.LRUCache[string]
}

// NewService creates the caching layer over a catalogue client.
func NewService(client *Client, cfg config.CatalogueConfig) *Service {
	return &Service{
		client:        client,
		groupCache:    cache.NewLRUCache[string](cfg.CacheSize, cfg.CacheTimeout),
		resourceCache: cache.NewLRUCache[string](cfg.CacheSize, cfg.CacheTimeout),
	}
}

// GroupID derives the resource-group id from a full resource id: the
// first four slash-separated segments.
func GroupID(id string) (string, error) {
	parts := strings.Split(id, "/")
	if len(parts) < 4 {
		return "", common.NewError(common.KindNotFound, "Not Found "+id)
	}
	return strings.Join(parts[:4], "/"), nil
}

// GroupPolicy returns the access policy of a resource group, consulting
// the cache first.
func (s *Service) GroupPolicy(ctx context.Context, groupID string) (string, error) {
	if policy, ok := s.groupCache.Get(groupID); ok {
		metrics.RecordCacheLookup("group", true)
		return policy, nil
	}
	metrics.RecordCacheLookup("group", false)

	policy, err := s.client.GroupAccessPolicy(ctx, groupID)
	if err != nil {
		return "", err
	}
	s.groupCache.Add(groupID, policy)
	return policy, nil
}

// ResourceExistsAndBind verifies a resource id exists in the catalogue
// and, if so, caches the group's policy against the full id.
func (s *Service) ResourceExistsAndBind(ctx context.Context, id, groupPolicy string) (bool, error) {
	if _, ok := s.resourceCache.Get(id); ok {
		metrics.RecordCacheLookup("resource", true)
		return true, nil
	}
	metrics.RecordCacheLookup("resource", false)

	exists, err := s.client.ResourceExists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		s.resourceCache.Add(id, groupPolicy)
	}
	return exists, nil
}

// EffectivePolicy resolves the access policy governing a full resource
// id. A cached resource entry answers directly; otherwise the group
// policy is fetched and the id bound once its existence is confirmed.
func (s *Service) EffectivePolicy(ctx context.Context, id string) (string, error) {
	if policy, ok := s.resourceCache.Get(id); ok {
		metrics.RecordCacheLookup("resource", true)
		return policy, nil
	}
	metrics.RecordCacheLookup("resource", false)

	groupID, err := GroupID(id)
	if err != nil {
		return "", err
	}
	groupPolicy, err := s.GroupPolicy(ctx, groupID)
	if err != nil {
		return "", err
	}
	exists, err := s.ResourceExistsAndBind(ctx, id, groupPolicy)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", common.NewError(common.KindNotFound, "Not Found "+id)
	}
	return groupPolicy, nil
}

// ApplicableFilters returns the search filters a catalogue item allows.
// Items declaring none fall back to the full filter set.
func (s *Service) ApplicableFilters(ctx context.Context, id string) ([]string, error) {
	filters, err := s.client.ItemFilters(ctx, id)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil, err
		}
		logging.Warn().Err(err).Str("id", id).Msg("filter lookup failed, using defaults")
		return defaultFilters, nil
	}
	if len(filters) == 0 {
		return defaultFilters, nil
	}
	return filters, nil
}
