// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package validation

import (
	"strings"
	"time"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
)

// Validator checks a single request parameter or header.
type Validator interface {
	IsValid() error
}

// RequestType selects the validator chain for an endpoint.
type RequestType string

const (
	RequestAsyncSearch RequestType = "ASYNC_SEARCH"
	RequestAsyncStatus RequestType = "ASYNC_STATUS"
)

func invalid(param, reason string) error {
	return common.NewError(common.KindInvalidParameter,
		"Invalid value for parameter "+param+": "+reason)
}

func missing(param string) error {
	return common.NewError(common.KindInvalidParameter,
		"Required parameter "+param+" not found")
}

// StringTypeValidator checks presence and length bounds of a free-form
// parameter.
type StringTypeValidator struct {
	Param    string
	Value    string
	Required bool
	MaxLen   int
}

func (v *StringTypeValidator) IsValid() error {
	if v.Value == "" {
		if v.Required {
			return missing(v.Param)
		}
		return nil
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return invalid(v.Param, "value too long")
	}
	return nil
}

// IDTypeValidator checks a catalogue resource id: a slash-delimited path
// of at least four segments, none empty.
type IDTypeValidator struct {
	Value    string
	Required bool
}

func (v *IDTypeValidator) IsValid() error {
	if v.Value == "" {
		if v.Required {
			return missing("id")
		}
		return nil
	}
	if len(v.Value) > 512 {
		return invalid("id", "value too long")
	}
	segments := strings.Split(v.Value, "/")
	if len(segments) < 4 {
		return invalid("id", "id must have at least 4 segments")
	}
	for _, s := range segments {
		if s == "" {
			return invalid("id", "empty id segment")
		}
	}
	return nil
}

// UUIDTypeValidator checks a UUID-shaped parameter such as searchID.
type UUIDTypeValidator struct {
	Param    string
	Value    string
	Required bool
}

func (v *UUIDTypeValidator) IsValid() error {
	if v.Value == "" {
		if v.Required {
			return missing(v.Param)
		}
		return nil
	}
	if !checkVar(v.Value, "uuid4") {
		return invalid(v.Param, "not a valid UUID")
	}
	return nil
}

// DateTypeValidator checks an ISO-8601 instant.
type DateTypeValidator struct {
	Param    string
	Value    string
	Required bool
}

func (v *DateTypeValidator) IsValid() error {
	if v.Value == "" {
		if v.Required {
			return missing(v.Param)
		}
		return nil
	}
	if _, err := time.Parse(time.RFC3339, v.Value); err != nil {
		return invalid(v.Param, "not a valid ISO-8601 instant")
	}
	return nil
}

// EnumTypeValidator checks membership in a fixed value set,
// case-insensitively.
type EnumTypeValidator struct {
	Param    string
	Value    string
	Required bool
	Allowed  []string
}

func (v *EnumTypeValidator) IsValid() error {
	if v.Value == "" {
		if v.Required {
			return missing(v.Param)
		}
		return nil
	}
	for _, a := range v.Allowed {
		if strings.EqualFold(v.Value, a) {
			return nil
		}
	}
	return invalid(v.Param, "allowed values are ["+strings.Join(v.Allowed, ",")+"]")
}

// GeoRelTypeValidator checks the geo relation, allowing the
// near;maxdistance= form.
type GeoRelTypeValidator struct {
	Value    string
	Required bool
}

var geoRelations = []string{"within", "intersects", "near"}

func (v *GeoRelTypeValidator) IsValid() error {
	if v.Value == "" {
		if v.Required {
			return missing("georel")
		}
		return nil
	}
	rel, attr, hasAttr := strings.Cut(v.Value, ";")
	ok := false
	for _, g := range geoRelations {
		if strings.EqualFold(rel, g) {
			ok = true
			break
		}
	}
	if !ok {
		return invalid("georel", "allowed values are ["+strings.Join(geoRelations, ",")+"]")
	}
	if hasAttr {
		if !strings.EqualFold(rel, "near") {
			return invalid("georel", "only near accepts a maxdistance attribute")
		}
		key, dist, hasEq := strings.Cut(attr, "=")
		if !hasEq || !strings.EqualFold(key, "maxdistance") || !checkVar(dist, "numeric") {
			return invalid("georel", "malformed maxdistance attribute")
		}
	}
	return nil
}

// HeaderTokenValidator requires a bearer token header on secured
// endpoints.
type HeaderTokenValidator struct {
	Value string
}

func (v *HeaderTokenValidator) IsValid() error {
	if strings.TrimSpace(v.Value) == "" {
		return missing("token")
	}
	return nil
}
