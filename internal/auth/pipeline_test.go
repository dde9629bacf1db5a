// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
	"github.com/SRINI2410/iudx-resource-server/internal/config"
)

const (
	testAudience = "rs.iudx.io"
	testIssuer   = "auth.iudx.io"
	testResource = "datakaveri.org/b8bd3e9d/rs.iudx.io/surat-itms-realtime-info/surat-itms-live-eta"
	testSub      = "349b4b55-0251-490e-bee9-00f3a5d3e643"
)

type fakeVerifier struct {
	jwt *JwtData
	err error
}

func (v *fakeVerifier) Verify(context.Context, string) (*JwtData, error) {
	return v.jwt, v.err
}

type fakePolicies struct {
	policy string
	err    error
}

func (p *fakePolicies) EffectivePolicy(context.Context, string) (string, error) {
	return p.policy, p.err
}

type fakeAuthorizer struct {
	allowed bool
	err     error
	calls   int
}

func (a *fakeAuthorizer) Authorize(role, method, endpoint string) (bool, error) {
	a.calls++
	return a.allowed, a.err
}

func consumerJwt() *JwtData {
	now := time.Now()
	return &JwtData{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testSub,
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Iid:  "ri:" + testResource,
		Role: "consumer",
	}
}

func testPipeline(verifier TokenVerifier, policies PolicyResolver, authorizer Authorizer) *Pipeline {
	cfg := config.AuthConfig{
		Audience:            testAudience,
		Issuer:              testIssuer,
		RevocationCacheSize: 100,
		RevocationCacheTTL:  time.Hour,
	}
	return NewPipeline(verifier, policies, NewRevocationRegistry(cfg), authorizer, cfg)
}

func searchRequest() Request {
	return Request{
		Token:    "a.b.c",
		ID:       testResource,
		Endpoint: "/ngsi-ld/v1/async/search",
		Method:   "GET",
	}
}

func TestAuthenticateSecureResource(t *testing.T) {
	p := testPipeline(
		&fakeVerifier{jwt: consumerJwt()},
		&fakePolicies{policy: "SECURE"},
		&fakeAuthorizer{allowed: true},
	)

	principal, err := p.Authenticate(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("Authenticate() = %v", err)
	}
	if principal.UserID != testSub {
		t.Fatalf("UserID = %q; want sub claim", principal.UserID)
	}
	if principal.IsOpen {
		t.Fatal("SECURE resource must not be marked open")
	}
	if principal.Expiry.IsZero() {
		t.Fatal("expiry missing from principal")
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	p := testPipeline(
		&fakeVerifier{err: common.NewError(common.KindUnauthenticated, "authorization token is invalid")},
		&fakePolicies{},
		&fakeAuthorizer{},
	)

	_, err := p.Authenticate(context.Background(), searchRequest())
	if common.KindOf(err) != common.KindUnauthenticated {
		t.Fatalf("kind = %v; want KindUnauthenticated", common.KindOf(err))
	}
}

func TestAuthenticateWrongAudience(t *testing.T) {
	j := consumerJwt()
	j.Audience = jwt.ClaimStrings{"other.server.io"}
	p := testPipeline(&fakeVerifier{jwt: j}, &fakePolicies{policy: "SECURE"}, &fakeAuthorizer{allowed: true})

	_, err := p.Authenticate(context.Background(), searchRequest())
	if common.KindOf(err) != common.KindUnauthenticated {
		t.Fatalf("kind = %v; want KindUnauthenticated", common.KindOf(err))
	}
}

func TestAuthenticateAudienceCaseInsensitive(t *testing.T) {
	j := consumerJwt()
	j.Audience = jwt.ClaimStrings{"RS.IUDX.IO"}
	p := testPipeline(&fakeVerifier{jwt: j}, &fakePolicies{policy: "SECURE"}, &fakeAuthorizer{allowed: true})

	if _, err := p.Authenticate(context.Background(), searchRequest()); err != nil {
		t.Fatalf("audience match should ignore case: %v", err)
	}
}

func TestAuthenticateRevokedToken(t *testing.T) {
	verifier := &fakeVerifier{jwt: consumerJwt()}
	p := testPipeline(verifier, &fakePolicies{policy: "SECURE"}, &fakeAuthorizer{allowed: true})

	p.revocations.Revoke(testSub, time.Now().Add(time.Minute))

	_, err := p.Authenticate(context.Background(), searchRequest())
	if common.KindOf(err) != common.KindUnauthenticated {
		t.Fatalf("kind = %v; want KindUnauthenticated", common.KindOf(err))
	}
}

func TestAuthenticateTokenIssuedAfterRevocation(t *testing.T) {
	verifier := &fakeVerifier{jwt: consumerJwt()}
	p := testPipeline(verifier, &fakePolicies{policy: "SECURE"}, &fakeAuthorizer{allowed: true})

	p.revocations.Revoke(testSub, time.Now().Add(-time.Minute))

	if _, err := p.Authenticate(context.Background(), searchRequest()); err != nil {
		t.Fatalf("token issued after revocation should pass: %v", err)
	}
}

func TestAuthenticateServiceTokenSkipsRevocation(t *testing.T) {
	j := consumerJwt()
	j.Issuer = testSub // iss == sub marks a service token
	p := testPipeline(&fakeVerifier{jwt: j}, &fakePolicies{policy: "SECURE"}, &fakeAuthorizer{allowed: true})
	p.revocations.Revoke(testSub, time.Now().Add(time.Minute))

	if _, err := p.Authenticate(context.Background(), searchRequest()); err != nil {
		t.Fatalf("service tokens skip the revocation check: %v", err)
	}
}

func TestAuthenticateUnknownResource(t *testing.T) {
	p := testPipeline(
		&fakeVerifier{jwt: consumerJwt()},
		&fakePolicies{err: common.NewError(common.KindNotFound, "Not Found "+testResource)},
		&fakeAuthorizer{allowed: true},
	)

	_, err := p.Authenticate(context.Background(), searchRequest())
	if common.KindOf(err) != common.KindNotFound {
		t.Fatalf("kind = %v; want KindNotFound", common.KindOf(err))
	}
}

func TestAuthenticateOpenResourceOpenEndpoint(t *testing.T) {
	authorizer := &fakeAuthorizer{allowed: false}
	j := consumerJwt()
	j.Iid = "ri:some/other/resource/id" // binding must not run here
	p := testPipeline(&fakeVerifier{jwt: j}, &fakePolicies{policy: "OPEN"}, authorizer)

	req := searchRequest()
	req.Endpoint = "/ngsi-ld/v1/consumer/audit"

	// An OPEN resource named on an open endpoint completes without
	// consulting the role matrix.
	principal, err := p.Authenticate(context.Background(), req)
	if err != nil {
		t.Fatalf("Authenticate() = %v", err)
	}
	if !principal.IsOpen {
		t.Fatal("principal should be marked open")
	}
	if authorizer.calls != 0 {
		t.Fatal("open short-circuit must not consult the authorizer")
	}
}

func TestAuthenticateOpenResourceStillBindsOnSecureEndpoint(t *testing.T) {
	// async/search is not an open endpoint: even an OPEN resource goes
	// through iid binding and role authorization.
	j := consumerJwt()
	j.Iid = "ri:some/other/resource/id"
	p := testPipeline(&fakeVerifier{jwt: j}, &fakePolicies{policy: "OPEN"}, &fakeAuthorizer{allowed: true})

	_, err := p.Authenticate(context.Background(), searchRequest())
	if common.KindOf(err) != common.KindUnauthenticated {
		t.Fatalf("kind = %v; want KindUnauthenticated for iid mismatch", common.KindOf(err))
	}
}

func TestAuthenticateIidBindingCaseInsensitive(t *testing.T) {
	j := consumerJwt()
	j.Iid = "ri:" + "DATAKAVERI.ORG/b8bd3e9d/rs.iudx.io/surat-itms-realtime-info/surat-itms-live-eta"
	p := testPipeline(&fakeVerifier{jwt: j}, &fakePolicies{policy: "SECURE"}, &fakeAuthorizer{allowed: true})

	if _, err := p.Authenticate(context.Background(), searchRequest()); err != nil {
		t.Fatalf("iid binding should ignore case: %v", err)
	}
}

func TestAuthenticateRoleDenied(t *testing.T) {
	p := testPipeline(&fakeVerifier{jwt: consumerJwt()}, &fakePolicies{policy: "SECURE"}, &fakeAuthorizer{allowed: false})

	_, err := p.Authenticate(context.Background(), searchRequest())
	if common.KindOf(err) != common.KindForbidden {
		t.Fatalf("kind = %v; want KindForbidden", common.KindOf(err))
	}
	if common.DetailOf(err) != "no access provided to endpoint" {
		t.Fatalf("detail = %q", common.DetailOf(err))
	}
}

func TestAuthenticateAdminPath(t *testing.T) {
	j := consumerJwt()
	j.Role = "admin"
	j.Iid = "rs:" + testAudience
	authorizer := &fakeAuthorizer{allowed: false}
	p := testPipeline(&fakeVerifier{jwt: j}, &fakePolicies{err: common.NewError(common.KindUpstream, "catalogue unreachable")}, authorizer)

	// Admin tokens never hit the catalogue or the role matrix.
	principal, err := p.Authenticate(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("Authenticate() = %v", err)
	}
	if principal.UserID != testSub {
		t.Fatalf("UserID = %q", principal.UserID)
	}
	if authorizer.calls != 0 {
		t.Fatal("admin path must not consult the authorizer")
	}
}

func TestAuthenticateAdminWrongIssuer(t *testing.T) {
	j := consumerJwt()
	j.Role = "admin"
	j.Issuer = "evil.issuer.io"
	p := testPipeline(&fakeVerifier{jwt: j}, &fakePolicies{}, &fakeAuthorizer{})

	_, err := p.Authenticate(context.Background(), searchRequest())
	if common.KindOf(err) != common.KindUnauthenticated {
		t.Fatalf("kind = %v; want KindUnauthenticated", common.KindOf(err))
	}
}

func TestAuthenticateStatusEndpointSkipsResourceCheck(t *testing.T) {
	policies := &fakePolicies{err: common.NewError(common.KindUpstream, "catalogue unreachable")}
	p := testPipeline(&fakeVerifier{jwt: consumerJwt()}, policies, &fakeAuthorizer{allowed: true})

	req := Request{Token: "a.b.c", Endpoint: "/ngsi-ld/v1/async/status", Method: "GET"}
	if _, err := p.Authenticate(context.Background(), req); err != nil {
		t.Fatalf("open endpoint must not consult the catalogue: %v", err)
	}
}
