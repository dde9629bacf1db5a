// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

// Package main is the entry point for the resource server.
//
// The server accepts NGSI-LD async search requests over HTTP, validates
// and authorizes them against the catalogue and the auth server's
// tokens, persists each accepted query, and hands it to the async query
// worker over NATS JetStream.
//
// Initialization order:
//
//  1. Configuration: Koanf v2 with env > config file > defaults
//  2. Logging: zerolog, configured globally
//  3. Database: DuckDB job store
//  4. Broker: Watermill NATS publisher with circuit breaker
//  5. Auth: JWT verifier, revocation registry, Casbin enforcer
//  6. HTTP server under a suture supervisor
//
// Shutdown on SIGINT/SIGTERM drains in-flight requests, then closes
// the broker and database.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/SRINI2410/iudx-resource-server/internal/apiserver"
	"github.com/SRINI2410/iudx-resource-server/internal/async"
	"github.com/SRINI2410/iudx-resource-server/internal/auth"
	"github.com/SRINI2410/iudx-resource-server/internal/authz"
	"github.com/SRINI2410/iudx-resource-server/internal/catalogue"
	"github.com/SRINI2410/iudx-resource-server/internal/config"
	"github.com/SRINI2410/iudx-resource-server/internal/database"
	"github.com/SRINI2410/iudx-resource-server/internal/databroker"
	"github.com/SRINI2410/iudx-resource-server/internal/logging"
	"github.com/SRINI2410/iudx-resource-server/internal/metering"
	"github.com/SRINI2410/iudx-resource-server/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("audience", cfg.Auth.Audience).
		Str("catalogue", cfg.Catalogue.Host).
		Str("broker", cfg.Broker.URL).
		Msg("starting resource server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing database")
		}
	}()

	publisher, err := databroker.NewPublisher(cfg.Broker)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to broker")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing broker publisher")
		}
	}()

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build authorization enforcer")
	}
	defer enforcer.Close()

	catClient := catalogue.NewClient(cfg.Catalogue)
	catService := catalogue.NewService(catClient, cfg.Catalogue)

	verifier := auth.NewHS256Verifier(cfg.Auth.JWTSecret)
	revocations := auth.NewRevocationRegistry(cfg.Auth)
	pipeline := auth.NewPipeline(verifier, catService, revocations, enforcer, cfg.Auth)

	auditor := metering.NewService(publisher)
	submitter := async.NewService(db, publisher, catService, auditor)

	validators := validation.NewFactory(cfg.Validation.MaxCoordinates, cfg.Validation.CoordinatePrecision)
	handlers := apiserver.NewHandlers(pipeline, validators, submitter)
	router := apiserver.NewRouter(handlers, db, cfg.Server.CORSOrigins)
	server := apiserver.New(cfg.Server, router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	supervisor := suture.New("iudx-rs", suture.Spec{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})
	supervisor.Add(server)

	if err := supervisor.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor exited")
	}
	logging.Info().Msg("resource server stopped")
}
