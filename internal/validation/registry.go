// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package validation

import (
	"net/http"
	"net/url"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
)

// Factory builds the ordered validator chain for each request type.
type Factory struct {
	maxCoordinates int
	precision      int
}

// NewFactory creates a validator factory with the configured coordinate
// limits.
func NewFactory(maxCoordinates, precision int) *Factory {
	return &Factory{maxCoordinates: maxCoordinates, precision: precision}
}

var timeRelations = []string{"after", "before", "during", "between"}
var geometries = []string{"Point", "Polygon", "LineString", "bbox"}
var searchOptions = []string{"count"}

// Build returns the validators for the request type, in evaluation order.
// Returns nil for an unknown request type.
func (f *Factory) Build(requestType RequestType, params url.Values, headers http.Header) []Validator {
	switch requestType {
	case RequestAsyncSearch:
		return []Validator{
			&HeaderTokenValidator{Value: headers.Get("token")},
			&IDTypeValidator{Value: params.Get("id"), Required: true},
			&DateTypeValidator{Param: "time", Value: params.Get("time"), Required: false},
			&DateTypeValidator{Param: "endtime", Value: params.Get("endtime"), Required: false},
			&EnumTypeValidator{Param: "timerel", Value: params.Get("timerel"), Required: false, Allowed: timeRelations},
			&GeoRelTypeValidator{Value: params.Get("georel"), Required: false},
			&EnumTypeValidator{Param: "geometry", Value: params.Get("geometry"), Required: false, Allowed: geometries},
			NewCoordinateValidator(params.Get("coordinates"), false, f.maxCoordinates, f.precision),
			&StringTypeValidator{Param: "attrs", Value: params.Get("attrs"), Required: false, MaxLen: 256},
			&StringTypeValidator{Param: "q", Value: params.Get("q"), Required: false, MaxLen: 512},
			&EnumTypeValidator{Param: "options", Value: params.Get("options"), Required: false, Allowed: searchOptions},
		}
	case RequestAsyncStatus:
		return []Validator{
			&HeaderTokenValidator{Value: headers.Get("token")},
			&UUIDTypeValidator{Param: "searchID", Value: params.Get("searchID"), Required: true},
		}
	default:
		return nil
	}
}

// Validate runs the chain for the request type and stops at the first
// failure.
func (f *Factory) Validate(requestType RequestType, params url.Values, headers http.Header) error {
	validators := f.Build(requestType, params, headers)
	if validators == nil {
		return common.NewError(common.KindInternal, "no validators registered for request type")
	}
	for _, v := range validators {
		if err := v.IsValid(); err != nil {
			logging.Debug().Err(err).Str("request_type", string(requestType)).Msg("parameter validation failed")
			return err
		}
	}
	return nil
}
