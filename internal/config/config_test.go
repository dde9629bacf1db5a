// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Auth.Audience = "rs.example.org"
	cfg.Catalogue.Host = "catalogue.example.org"
	return cfg
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "missing audience",
			mutate:  func(c *Config) { c.Auth.Audience = "" },
			wantMsg: "auth.audience",
		},
		{
			name:    "missing catalogue host",
			mutate:  func(c *Config) { c.Catalogue.Host = "" },
			wantMsg: "catalogue.host",
		},
		{
			name:    "catalogue port out of range",
			mutate:  func(c *Config) { c.Catalogue.Port = 70000 },
			wantMsg: "catalogue.port",
		},
		{
			name:    "server port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantMsg: "server.port",
		},
		{
			name:    "zero max coordinates",
			mutate:  func(c *Config) { c.Validation.MaxCoordinates = 0 },
			wantMsg: "max_coordinates",
		},
		{
			name:    "zero coordinate precision",
			mutate:  func(c *Config) { c.Validation.CoordinatePrecision = 0 },
			wantMsg: "coordinate_precision",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8443 {
		t.Errorf("server.port default = %d", cfg.Server.Port)
	}
	if cfg.Catalogue.RsgPath != "/iudx/cat/v1/search" {
		t.Errorf("catalogue.rsg_path default = %q", cfg.Catalogue.RsgPath)
	}
	if cfg.Broker.Stream != "ASYNC_QUERY" {
		t.Errorf("broker.stream default = %q", cfg.Broker.Stream)
	}
	if cfg.Validation.MaxCoordinates != 10 {
		t.Errorf("validation.max_coordinates default = %d", cfg.Validation.MaxCoordinates)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level default = %q", cfg.Logging.Level)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"RS_AUDIENCE", "auth.audience"},
		{"CAT_SERVER_HOST", "catalogue.host"},
		{"RS_CORS_ORIGINS", "server.cors_origins"},
		{"RS_BROKER_URL", "broker.url"},
		{"RS_DATABASE_PATH", "database.path"},
		{"UNRELATED_VAR", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}
