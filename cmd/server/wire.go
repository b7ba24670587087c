// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"property_listing_backend/internal/app"
	"property_listing_backend/internal/config"
	"property_listing_backend/internal/firebase"
	"property_listing_backend/internal/jobs"
	"property_listing_backend/internal/owner"
	"property_listing_backend/internal/platform/logger"
	"property_listing_backend/internal/property"
	"property_listing_backend/internal/user"

	"github.com/google/wire"
)

var platformSet = wire.NewSet(
	logger.New,
	firebase.NewFirebaseService,
	firebase.ProvideFirestore,
	firebase.ProvideVerifier,
)

var domainSet = wire.NewSet(
	user.NewFirestoreRepository,
	user.NewService,
	wire.Bind(new(user.Service), new(*user.ServiceImplementation)),

	owner.NewEnricher,

	property.NewFirestoreRepository,
	property.NewService,
	wire.Bind(new(property.Service), new(*property.ServiceImplementation)),

	jobs.NewProfileBackfillJob,
	wire.Bind(new(jobs.OwnerSource), new(property.Repository)),
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		domainSet,
		user.NewHandler,
		property.NewHandler,
		app.NewServer,
	)
	return nil, nil, nil
}

// initializeBackfillJob wires the profile backfill job for one-off runs.
func initializeBackfillJob(cfg *config.Config) (*jobs.ProfileBackfillJob, func(), error) {
	wire.Build(
		platformSet,
		domainSet,
	)
	return nil, nil, nil
}
