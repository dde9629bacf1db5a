// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package apiserver

import (
	"context"
	"net/http"

	"github.com/SRINI2410/iudx-resource-server/internal/async"
	"github.com/SRINI2410/iudx-resource-server/internal/auth"
	"github.com/SRINI2410/iudx-resource-server/internal/validation"
)

// API paths served by this process.
const (
	apiAsyncSearch = "/ngsi-ld/v1/async/search"
	apiAsyncStatus = "/ngsi-ld/v1/async/status"
)

// Authenticator is the introspection surface the handlers need.
type Authenticator interface {
	Authenticate(ctx context.Context, req auth.Request) (*auth.Principal, error)
}

// AsyncService is the submission/status surface the handlers need.
type AsyncService interface {
	Submit(ctx context.Context, in async.SubmitInput) (string, error)
	Status(ctx context.Context, searchID, userID string) (*async.StatusResult, error)
}

// Handlers serves the async NGSI-LD endpoints.
type Handlers struct {
	pipeline   Authenticator
	validators *validation.Factory
	service    AsyncService
}

// NewHandlers wires the endpoint handlers.
func NewHandlers(pipeline Authenticator, validators *validation.Factory, service AsyncService) *Handlers {
	return &Handlers{pipeline: pipeline, validators: validators, service: service}
}

// AsyncSearch handles GET /ngsi-ld/v1/async/search: validate, then
// introspect, then submit. On success the searchId comes back in a
// 201 so the caller can poll the status endpoint.
func (h *Handlers) AsyncSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := decodeQuery(r.URL.RawQuery)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validators.Validate(validation.RequestAsyncSearch, params, r.Header); err != nil {
		writeError(ctx, w, err)
		return
	}

	principal, err := h.pipeline.Authenticate(ctx, auth.Request{
		Token:    r.Header.Get("token"),
		ID:       params.Get("id"),
		Endpoint: apiAsyncSearch,
		Method:   r.Method,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	searchID, err := h.service.Submit(ctx, async.SubmitInput{
		Query:      queryDocument(params),
		ResourceID: params.Get("id"),
		UserID:     principal.UserID,
		InstanceID: r.Host,
		Endpoint:   apiAsyncSearch,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "query submitted successfully",
		[]map[string]string{{"searchId": searchID}})
}

// AsyncStatus handles GET /ngsi-ld/v1/async/status: report the state
// of a previously submitted search to its owner.
func (h *Handlers) AsyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := decodeQuery(r.URL.RawQuery)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validators.Validate(validation.RequestAsyncStatus, params, r.Header); err != nil {
		writeError(ctx, w, err)
		return
	}

	principal, err := h.pipeline.Authenticate(ctx, auth.Request{
		Token:    r.Header.Get("token"),
		Endpoint: apiAsyncStatus,
		Method:   r.Method,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.service.Status(ctx, params.Get("searchID"), principal.UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "success", []any{result})
}
