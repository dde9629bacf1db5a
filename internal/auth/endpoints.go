// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package auth

// openEndpoints lists the API paths exempt from resource-id checks.
// They either carry no resource id at all or bind access some other
// way (ownership, admin role).
var openEndpoints = map[string]struct{}{
	"/ngsi-ld/v1/subscription":       {},
	"/management/user/resetPassword": {},
	"/ngsi-ld/v1/consumer/audit":     {},
	"/admin/revokeToken":             {},
	"/admin/resourceattribute":       {},
	"/ngsi-ld/v1/provider/audit":     {},
	"/ngsi-ld/v1/async/status":       {},
}

// IsOpenEndpoint reports whether an API path skips the resource-id and
// iid-binding checks.
func IsOpenEndpoint(endpoint string) bool {
	_, ok := openEndpoints[endpoint]
	return ok
}
