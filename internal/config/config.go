// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package config holds the server configuration and its Koanf-based loader.
// Precedence: environment variables > config file > built-in defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the resource server.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Auth       AuthConfig       `koanf:"auth"`
	Catalogue  CatalogueConfig  `koanf:"catalogue"`
	Validation ValidationConfig `koanf:"validation"`
	Broker     BrokerConfig     `koanf:"broker"`
	Database   DatabaseConfig   `koanf:"database"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed cross-origin hosts.
	CORSOrigins []string `koanf:"cors_origins"`
}

// AuthConfig configures token introspection.
type AuthConfig struct {
	// Audience is the resource server identity expected in the aud claim.
	Audience string `koanf:"audience"`

	// Issuer is the trusted token issuer. Validated for admin tokens only.
	Issuer string `koanf:"issuer"`

	// JWTSecret signs and verifies HS256 tokens when no external verifier
	// is wired in.
	JWTSecret string `koanf:"jwt_secret"`

	// RevocationCacheSize bounds the revoked-subject cache.
	RevocationCacheSize int `koanf:"revocation_cache_size"`

	// RevocationCacheTTL expires revocation entries after last access.
	RevocationCacheTTL time.Duration `koanf:"revocation_cache_ttl"`
}

// CatalogueConfig configures the catalogue HTTP client and the
// access-policy caches in front of it.
type CatalogueConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	RsgPath string        `koanf:"rsg_path"`
	Timeout time.Duration `koanf:"timeout"`

	// CacheSize bounds each of the group and resource caches.
	CacheSize int `koanf:"cache_size"`

	// CacheTimeout expires cache entries after last access.
	CacheTimeout time.Duration `koanf:"cache_timeout"`
}

// ValidationConfig configures request parameter validation.
type ValidationConfig struct {
	// MaxCoordinates caps the coordinate pairs accepted for lines and
	// polygons.
	MaxCoordinates int `koanf:"max_coordinates"`

	// CoordinatePrecision is the maximum number of fractional digits
	// allowed per coordinate value.
	CoordinatePrecision int `koanf:"coordinate_precision"`
}

// BrokerConfig configures the async-query message broker.
type BrokerConfig struct {
	URL string `koanf:"url"`

	// Stream is the JetStream stream both publish subjects belong to.
	// Publishes assert the stream when set.
	Stream string `koanf:"stream"`

	PublishTimeout time.Duration `koanf:"publish_timeout"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
}

// DatabaseConfig configures the async-job database.
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks configuration consistency at boot.
func (c *Config) Validate() error {
	if c.Auth.Audience == "" {
		return fmt.Errorf("auth.audience is required")
	}
	if c.Catalogue.Host == "" {
		return fmt.Errorf("catalogue.host is required")
	}
	if c.Catalogue.Port <= 0 || c.Catalogue.Port > 65535 {
		return fmt.Errorf("catalogue.port %d out of range", c.Catalogue.Port)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Validation.MaxCoordinates <= 0 {
		return fmt.Errorf("validation.max_coordinates must be positive")
	}
	if c.Validation.CoordinatePrecision <= 0 {
		return fmt.Errorf("validation.coordinate_precision must be positive")
	}
	return nil
}
