// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package auth implements token introspection for the resource server:
// JWT verification, revocation tracking and the staged authentication
// pipeline run before every protected request.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
)

// JwtData carries the claims an auth-server token presents to this
// resource server.
type JwtData struct {
	jwt.RegisteredClaims

	// Iid identifies the resource or group the token grants access to,
	// as "<kind>:<id>" where kind is ri, rg or rs.
	Iid string `json:"iid"`

	// Role is one of consumer, provider, delegate or admin.
	Role string `json:"role"`

	// Cons carries provider-imposed access constraints.
	Cons map[string]any `json:"cons,omitempty"`

	// Drl is the delegated role on delegate tokens.
	Drl string `json:"drl,omitempty"`

	// Did is the delegator identity on delegate tokens.
	Did string `json:"did,omitempty"`
}

// Aud returns the single audience value of the token, or "" when none
// is present.
func (j *JwtData) Aud() string {
	if len(j.Audience) == 0 {
		return ""
	}
	return j.Audience[0]
}

// IidResource strips the kind prefix from the iid claim.
func (j *JwtData) IidResource() string {
	if _, id, ok := strings.Cut(j.Iid, ":"); ok {
		return id
	}
	return j.Iid
}

// IsServiceToken reports whether the token is issued by the subject
// itself, i.e. a service-to-service token.
func (j *JwtData) IsServiceToken() bool {
	return j.Issuer != "" && j.Issuer == j.Subject
}

// TokenVerifier verifies a compact JWT and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*JwtData, error)
}

// Verifier validates token signatures against an injected keyfunc. The
// parser checks exp and iat; audience and issuer are the pipeline's
// concern since issuer only binds admin tokens.
type Verifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
}

// NewVerifier creates a verifier over a keyfunc restricted to the given
// signing methods.
func NewVerifier(keyfunc jwt.Keyfunc, methods ...string) *Verifier {
	if len(methods) == 0 {
		methods = []string{"ES256", "RS256", "HS256"}
	}
	return &Verifier{
		keyfunc: keyfunc,
		parser: jwt.NewParser(
			jwt.WithValidMethods(methods),
			jwt.WithExpirationRequired(),
		),
	}
}

// NewHS256Verifier creates a verifier for tokens signed with a shared
// secret.
func NewHS256Verifier(secret string) *Verifier {
	key := []byte(secret)
	return NewVerifier(func(t *jwt.Token) (any, error) {
		return key, nil
	}, "HS256")
}

// Verify implements TokenVerifier. Any parse or signature failure is
// surfaced as Unauthenticated without the underlying detail.
func (v *Verifier) Verify(_ context.Context, token string) (*JwtData, error) {
	claims := &JwtData{}
	parsed, err := v.parser.ParseWithClaims(token, claims, v.keyfunc)
	if err != nil {
		return nil, common.WrapError(common.KindUnauthenticated,
			"authorization token is invalid", fmt.Errorf("decode jwt: %w", err))
	}
	if !parsed.Valid {
		return nil, common.NewError(common.KindUnauthenticated, "authorization token is invalid")
	}
	return claims, nil
}

// Expiry returns the token expiry, zero when absent.
func (j *JwtData) Expiry() time.Time {
	if j.ExpiresAt == nil {
		return time.Time{}
	}
	return j.ExpiresAt.Time
}

// Issued returns the token issue time, zero when absent.
func (j *JwtData) Issued() time.Time {
	if j.IssuedAt == nil {
		return time.Time{}
	}
	return j.IssuedAt.Time
}
