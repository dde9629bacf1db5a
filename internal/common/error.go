// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package common holds the error taxonomy and response URNs shared by the
// request pipeline and the HTTP boundary.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure. Each kind maps onto exactly one
// HTTP status and one response URN.
type Kind int

const (
	KindInvalidParameter Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindUpstream
	KindInternal
)

// HTTPStatus returns the status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidParameter:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// URN returns the machine-readable response type for the kind.
func (k Kind) URN() string {
	switch k {
	case KindInvalidParameter:
		return InvalidParamURN
	case KindUnauthenticated:
		return InvalidTokenURN
	case KindForbidden:
		return InvalidPermissionURN
	case KindNotFound:
		return ResourceNotFoundURN
	case KindUpstream:
		return BackendURN
	default:
		return InternalErrorURN
	}
}

// Title returns the human-readable title for the kind.
func (k Kind) Title() string {
	switch k {
	case KindInvalidParameter:
		return "Bad Request"
	case KindUnauthenticated:
		return "Not Authorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "Not Found"
	case KindUpstream:
		return "Bad Gateway"
	default:
		return "Internal Server Error"
	}
}

// Error is a classified failure carrying a client-safe detail. The detail
// never contains token contents or upstream credentials.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.cause)
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a classified error.
func NewError(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// WrapError creates a classified error preserving the cause for logging.
func WrapError(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, cause: cause}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// unclassified errors.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// DetailOf extracts the client-safe detail from err. Unclassified errors
// yield the internal title so internals never leak to clients.
func DetailOf(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Detail
	}
	return KindInternal.Title()
}
