// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package catalogue mediates access-policy lookups against the catalogue
// service, with bounded LRU+TTL caches in front of the HTTP client.
package catalogue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/config"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
	"github.com/SRINI2410/iudx-resource-server/internal/metrics"
)

// itemPath is the catalogue endpoint answering item-existence queries.
const itemPath = "/iudx/cat/v1/item"

// envelope is the catalogue response body.
type envelope struct {
	Type      string   `json:"type"`
	Status    string   `json:"status"`
	TotalHits int      `json:"totalHits"`
	Results   []result `json:"results"`
}

type result struct {
	ID           string   `json:"id"`
	AccessPolicy string   `json:"accessPolicy"`
	ResourceAPIs []string `json:"iudxResourceAPIs"`
}

// Client is the catalogue HTTP client. Each lookup retries once on a
// transport failure before surfacing Upstream; callers never retry.
type Client struct {
	base    *url.URL
	rsgPath string
	http    *http.Client
}

// NewClient creates a catalogue client from configuration.
func NewClient(cfg config.CatalogueConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base: &url.URL{
			Scheme: "https",
			Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		},
		rsgPath: cfg.RsgPath,
		http:    &http.Client{Timeout: timeout},
	}
}

// GroupAccessPolicy fetches the access policy of a resource group.
// Returns NotFound when the catalogue has no such group.
func (c *Client) GroupAccessPolicy(ctx context.Context, groupID string) (string, error) {
	query := url.Values{}
	query.Set("property", "[id]")
	query.Set("value", "[["+groupID+"]]")
	query.Set("filter", "[accessPolicy]")

	body, err := c.get(ctx, c.rsgPath, query)
	if err != nil {
		return "", err
	}
	if body.Status != "success" || len(body.Results) == 0 || body.Results[0].AccessPolicy == "" {
		logging.Debug().Str("group", groupID).Msg("group id invalid, empty results from catalogue")
		return "", common.NewError(common.KindNotFound, "Not Found "+groupID)
	}
	return body.Results[0].AccessPolicy, nil
}

// ResourceExists reports whether a resource id is known to the catalogue.
func (c *Client) ResourceExists(ctx context.Context, id string) (bool, error) {
	query := url.Values{}
	query.Set("property", "[id]")
	query.Set("value", "[["+id+"]]")
	query.Set("filter", "[id]")

	body, err := c.get(ctx, c.rsgPath, query)
	if err != nil {
		return false, err
	}
	if body.Status != "success" || body.TotalHits == 0 {
		logging.Debug().Str("id", id).Msg("resource id invalid, catalogue item not found")
		return false, common.NewError(common.KindNotFound, "Not Found "+id)
	}
	return true, nil
}

// ItemFilters fetches the applicable search filters declared on a
// catalogue item.
func (c *Client) ItemFilters(ctx context.Context, id string) ([]string, error) {
	query := url.Values{}
	query.Set("id", id)

	body, err := c.get(ctx, itemPath, query)
	if err != nil {
		return nil, err
	}
	if body.Status != "success" || body.TotalHits == 0 || len(body.Results) == 0 {
		return nil, common.NewError(common.KindNotFound, "Not Found "+id)
	}
	return body.Results[0].ResourceAPIs, nil
}

// get performs a catalogue GET with one retry on transport failure.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		body, err := c.getOnce(ctx, path, query)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, common.WrapError(common.KindUpstream, "catalogue unreachable", lastErr)
}

func (c *Client) getOnce(ctx context.Context, path string, query url.Values) (*envelope, error) {
	u := *c.base
	u.Path = path
	u.RawQuery = query.Encode()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalogue request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalogue request: %w", err)
	}
	defer resp.Body.Close()
	metrics.RecordCatalogueRequest(time.Since(start))

	if resp.StatusCode != http.StatusOK {
		// Non-200 carries no usable envelope; treat as an empty result
		// rather than a transport failure so the caller maps it to
		// NotFound without a retry.
		return &envelope{}, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read catalogue response: %w", err)
	}

	var body envelope
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode catalogue response: %w", err)
	}
	return &body, nil
}
