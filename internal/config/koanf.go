// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/iudx-rs/config.yaml",
	"/etc/iudx-rs/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all built-in defaults applied.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8443,
			Timeout:     30 * time.Second,
			CORSOrigins: []string{"*"},
		},
		Auth: AuthConfig{
			Audience:            "",
			Issuer:              "",
			JWTSecret:           "",
			RevocationCacheSize: 1000,
			RevocationCacheTTL:  30 * time.Minute,
		},
		Catalogue: CatalogueConfig{
			Host:         "",
			Port:         443,
			RsgPath:      "/iudx/cat/v1/search",
			Timeout:      5 * time.Second,
			CacheSize:    1000,
			CacheTimeout: 30 * time.Minute,
		},
		Validation: ValidationConfig{
			MaxCoordinates:      10,
			CoordinatePrecision: 6,
		},
		Broker: BrokerConfig{
			URL:            "nats://127.0.0.1:4222",
			Stream:         "ASYNC_QUERY",
			PublishTimeout: 5 * time.Second,
			MaxReconnects:  10,
			ReconnectWait:  2 * time.Second,
		},
		Database: DatabaseConfig{
			Path:         "/data/iudx-rs.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = runtime.NumCPU()
			QueryTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// RS_CAT_SERVER_HOST -> catalogue.host etc.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when supplied through environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated env values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to config paths.
// Variables carry an RS_ prefix; legacy names from older deployments are
// mapped explicitly.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	legacy := map[string]string{
		"rs_audience":              "auth.audience",
		"rs_issuer":                "auth.issuer",
		"rs_jwt_secret":            "auth.jwt_secret",
		"cat_server_host":          "catalogue.host",
		"cat_server_port":          "catalogue.port",
		"cat_rsg_path":             "catalogue.rsg_path",
		"cache_timeout_minutes":    "catalogue.cache_timeout",
		"max_coordinates":          "validation.max_coordinates",
		"coordinate_precision":     "validation.coordinate_precision",
		"broker_url":               "broker.url",
		"broker_stream":            "broker.stream",
		"database_path":            "database.path",
		"http_host":                "server.host",
		"http_port":                "server.port",
		"rs_cors_origins":          "server.cors_origins",
		"log_level":                "logging.level",
		"log_format":               "logging.format",
		"revocation_cache_size":    "auth.revocation_cache_size",
		"revocation_cache_timeout": "auth.revocation_cache_ttl",
	}
	if mapped, ok := legacy[key]; ok {
		return mapped
	}

	if strings.HasPrefix(key, "rs_") {
		return strings.Replace(strings.TrimPrefix(key, "rs_"), "_", ".", 1)
	}
	return ""
}
