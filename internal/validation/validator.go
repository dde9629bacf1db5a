// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package validation rejects malformed requests before any I/O happens.
//
// A registry keyed by RequestType yields an ordered list of per-parameter
// validators (presence, type, attribute-specific, header). Evaluation
// stops at the first failure, which surfaces as a 400 with the
// invalid-parameter URN and a detail naming the offending parameter.
//
// Simple field shapes (UUID, RFC3339 instants) delegate to the singleton
// go-playground validator; the coordinate grammar has its own validator
// in coordinates.go.
package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the singleton validator instance.
// Thread-safe; the instance caches struct and tag info internally.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// checkVar validates a single value against a go-playground tag.
func checkVar(value, tag string) bool {
	return getValidator().Var(value, tag) == nil
}
