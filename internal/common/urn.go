// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package common

// Response URNs carried in the type field of every client-facing envelope.
const (
	SuccessURN           = "urn:dx:rs:success"
	InvalidParamURN      = "urn:dx:rs:invalidParameter"
	InvalidTokenURN      = "urn:dx:rs:invalidAuthorizationToken"
	InvalidPermissionURN = "urn:dx:rs:invalidPermission"
	ResourceNotFoundURN  = "urn:dx:rs:resourceNotFound"
	BackendURN           = "urn:dx:rs:backend"
	InternalErrorURN     = "urn:dx:rs:internalServerError"
)

// Catalogue success envelope type.
const CatSuccessURN = "urn:dx:cat:Success"
