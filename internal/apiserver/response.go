// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package apiserver is the HTTP surface of the resource server: the
// chi router, the NGSI-LD async endpoints and the response envelope.
package apiserver

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
)

// responseBody is the envelope every response carries.
type responseBody struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Result any    `json:"result,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body responseBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to write response")
	}
}

func writeSuccess(w http.ResponseWriter, status int, title string, result any) {
	writeJSON(w, status, responseBody{
		Type:   common.SuccessURN,
		Title:  title,
		Result: result,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	kind := common.KindOf(err)
	logger := logging.Ctx(ctx)
	if kind == common.KindInternal {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Msg("request rejected")
	}
	writeJSON(w, kind.HTTPStatus(), responseBody{
		Type:   kind.URN(),
		Title:  kind.Title(),
		Detail: common.DetailOf(err),
	})
}
