// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package apiserver

import (
	"net/url"
	"strings"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
)

// canonicalParams maps lowercased query keys to their canonical names.
// Parameter matching is case-insensitive; unknown keys are rejected.
var canonicalParams = map[string]string{
	"id":          "id",
	"time":        "time",
	"endtime":     "endtime",
	"timerel":     "timerel",
	"attrs":       "attrs",
	"q":           "q",
	"georel":      "georel",
	"geometry":    "geometry",
	"coordinates": "coordinates",
	"options":     "options",
	"searchid":    "searchID",
}

// decodeQuery parses the raw query string into canonical parameters.
// A literal "+" in a value is a timezone offset in RFC3339 timestamps,
// not an encoded space, so it is protected before parsing.
func decodeQuery(rawQuery string) (url.Values, error) {
	raw := strings.ReplaceAll(rawQuery, "+", "%2B")
	parsed, err := url.ParseQuery(raw)
	if err != nil {
		return nil, common.WrapError(common.KindInvalidParameter, "malformed query string", err)
	}

	params := url.Values{}
	for key, values := range parsed {
		canonical, ok := canonicalParams[strings.ToLower(key)]
		if !ok {
			return nil, common.NewError(common.KindInvalidParameter, "unknown parameter "+key)
		}
		for _, v := range values {
			params.Add(canonical, v)
		}
	}
	return params, nil
}

// queryDocument builds the query payload forwarded to the worker from
// the present search parameters.
func queryDocument(params url.Values) map[string]any {
	doc := make(map[string]any)
	for _, name := range []string{
		"id", "time", "endtime", "timerel", "attrs", "q",
		"georel", "geometry", "coordinates", "options",
	} {
		if v := params.Get(name); v != "" {
			doc[name] = v
		}
	}
	return doc
}
