// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/SRINI2410/iudx-resource-server/internal/catalogue"
	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/config"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
	"github.com/SRINI2410/iudx-resource-server/internal/metrics"
)

// PolicyResolver answers the effective access policy of a resource id.
type PolicyResolver interface {
	EffectivePolicy(ctx context.Context, id string) (string, error)
}

// Authorizer decides whether a role may call a method on an endpoint.
type Authorizer interface {
	Authorize(role, method, endpoint string) (bool, error)
}

// Request is one introspection attempt.
type Request struct {
	Token    string
	ID       string
	Endpoint string
	Method   string
}

// Principal is the identity a successful introspection yields.
type Principal struct {
	UserID string
	IID    string
	Role   string
	Expiry time.Time

	// IsOpen marks the target resource's policy as OPEN.
	IsOpen bool
}

// resultContainer threads intermediate pipeline state between stages.
type resultContainer struct {
	jwt    *JwtData
	isOpen bool
}

// Pipeline runs the authentication stages in order: decode, audience,
// revocation, resource check, open short-circuit, iid binding, role
// authorization. Any failing stage terminates the pipeline; there are
// no retries here, upstream failures pass through as Upstream.
type Pipeline struct {
	verifier    TokenVerifier
	policies    PolicyResolver
	revocations *RevocationRegistry
	authorizer  Authorizer
	audience    string
	issuer      string
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(verifier TokenVerifier, policies PolicyResolver,
	revocations *RevocationRegistry, authorizer Authorizer, cfg config.AuthConfig) *Pipeline {
	return &Pipeline{
		verifier:    verifier,
		policies:    policies,
		revocations: revocations,
		authorizer:  authorizer,
		audience:    cfg.Audience,
		issuer:      cfg.Issuer,
	}
}

// Authenticate runs the pipeline for one request.
func (p *Pipeline) Authenticate(ctx context.Context, req Request) (*Principal, error) {
	jwtData, err := p.verifier.Verify(ctx, req.Token)
	if err != nil {
		metrics.RecordAuthDecision("decode", false)
		return nil, err
	}
	metrics.RecordAuthDecision("decode", true)

	// Admin tokens bind to the server itself, not a catalogue item.
	if strings.EqualFold(jwtData.Role, "admin") {
		return p.authenticateAdmin(jwtData)
	}

	result := &resultContainer{jwt: jwtData}

	if err := p.checkAudience(jwtData); err != nil {
		metrics.RecordAuthDecision("audience", false)
		return nil, err
	}
	metrics.RecordAuthDecision("audience", true)

	if err := p.checkRevocation(jwtData); err != nil {
		metrics.RecordAuthDecision("revocation", false)
		return nil, err
	}

	// Open endpoints carry no resource id of their own; the check only
	// runs when the request names one. Service tokens bypass it.
	skipResourceCheck := jwtData.IsServiceToken() ||
		(IsOpenEndpoint(req.Endpoint) && req.ID == "")
	if !skipResourceCheck {
		policy, err := p.policies.EffectivePolicy(ctx, req.ID)
		if err != nil {
			metrics.RecordAuthDecision("resource", false)
			return nil, err
		}
		result.isOpen = strings.EqualFold(policy, catalogue.PolicyOpen)
		metrics.RecordAuthDecision("resource", true)

		if result.isOpen && IsOpenEndpoint(req.Endpoint) {
			logger := logging.Ctx(ctx)
			logger.Debug().Str("id", req.ID).Msg("open resource on open endpoint, access allowed")
			return p.principal(result), nil
		}
	}

	// Open endpoints are exempt from iid binding; everything else must
	// present a token minted for the requested resource.
	if !IsOpenEndpoint(req.Endpoint) && !jwtData.IsServiceToken() {
		if err := p.checkIidBinding(jwtData, req.ID); err != nil {
			metrics.RecordAuthDecision("iid", false)
			return nil, err
		}
		metrics.RecordAuthDecision("iid", true)
	}

	allowed, err := p.authorizer.Authorize(jwtData.Role, req.Method, req.Endpoint)
	if err != nil {
		metrics.RecordAuthDecision("authorize", false)
		return nil, common.WrapError(common.KindInternal, "authorization failed", err)
	}
	if !allowed {
		metrics.RecordAuthDecision("authorize", false)
		logger := logging.Ctx(ctx)
		logger.Info().
			Str("role", jwtData.Role).
			Str("endpoint", req.Endpoint).
			Msg("user access denied")
		return nil, common.NewError(common.KindForbidden, "no access provided to endpoint")
	}
	metrics.RecordAuthDecision("authorize", true)

	return p.principal(result), nil
}

// authenticateAdmin validates an admin token against the server
// audience and trusted issuer only.
func (p *Pipeline) authenticateAdmin(jwtData *JwtData) (*Principal, error) {
	if err := p.checkAudience(jwtData); err != nil {
		metrics.RecordAuthDecision("admin", false)
		return nil, err
	}
	if !strings.EqualFold(p.issuer, jwtData.Issuer) {
		metrics.RecordAuthDecision("admin", false)
		logging.Error().Str("iss", jwtData.Issuer).Msg("incorrect issuer value in jwt")
		return nil, common.NewError(common.KindUnauthenticated, "incorrect issuer value in jwt")
	}
	metrics.RecordAuthDecision("admin", true)
	return p.principal(&resultContainer{jwt: jwtData}), nil
}

func (p *Pipeline) checkAudience(jwtData *JwtData) error {
	if p.audience != "" && strings.EqualFold(p.audience, jwtData.Aud()) {
		return nil
	}
	logging.Error().Str("aud", jwtData.Aud()).Msg("incorrect audience value in jwt")
	return common.NewError(common.KindUnauthenticated, "incorrect audience value in jwt")
}

// checkRevocation is skipped for service-to-service tokens, which the
// auth server cannot revoke individually.
func (p *Pipeline) checkRevocation(jwtData *JwtData) error {
	if jwtData.IsServiceToken() {
		return nil
	}
	if p.revocations.IsRevoked(jwtData.Subject, jwtData.Issued()) {
		return common.NewError(common.KindUnauthenticated, "authorization token has been revoked")
	}
	return nil
}

func (p *Pipeline) checkIidBinding(jwtData *JwtData, id string) error {
	if strings.EqualFold(jwtData.IidResource(), id) {
		return nil
	}
	logging.Error().Str("iid", jwtData.Iid).Msg("incorrect id value in jwt")
	return common.NewError(common.KindUnauthenticated, "incorrect id value in jwt")
}

func (p *Pipeline) principal(result *resultContainer) *Principal {
	return &Principal{
		UserID: result.jwt.Subject,
		IID:    result.jwt.Iid,
		Role:   result.jwt.Role,
		Expiry: result.jwt.Expiry(),
		IsOpen: result.isOpen,
	}
}
