package db

import (
	"context"
	"fmt"

	"github.com/cdms/clinic-system/internal/core/ports"
	"github.com/cdms/clinic-system/internal/infrastructure/config"
	"github.com/cdms/clinic-system/internal/infrastructure/db/mongo"
	"github.com/cdms/clinic-system/internal/infrastructure/db/postgres"
)

// Store bundles the repositories of one backing database.
type Store struct {
	Driver   string
	Users    ports.UserRepository
	Clinics  ports.ClinicRepository
	Patients ports.PatientRepository

	ping    func(ctx context.Context) error
	close   func(ctx context.Context) error
	migrate func(ctx context.Context) (int, error)
}

// Open connects to the database selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.Postgres)
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*Store, error) {
	pool, err := postgres.NewPool(ctx, cfg.URL, cfg.MaxConns, cfg.MinConns)
	if err != nil {
		return nil, err
	}
	migrator := postgres.NewMigrator(pool)

	return &Store{
		Driver:   config.DriverPostgres,
		Users:    postgres.NewUserRepository(pool),
		Clinics:  postgres.NewClinicRepository(pool),
		Patients: postgres.NewPatientRepository(pool),
		ping:     pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
		migrate: migrator.Up,
	}, nil
}

// Replaced in tests.
var (
	mongoConnect       = mongo.Connect
	mongoEnsureIndexes = mongo.EnsureIndexes
)

// openMongo connects and ensures the unique indexes the repositories rely on
// for duplicate detection.
func openMongo(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, database, err := mongoConnect(ctx, mongo.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return nil, err
	}
	if err := mongoEnsureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Store{
		Driver:   config.DriverMongo,
		Users:    mongo.NewUserRepository(database),
		Clinics:  mongo.NewClinicRepository(database),
		Patients: mongo.NewPatientRepository(database),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
		migrate: func(ctx context.Context) (int, error) {
			if err := mongoEnsureIndexes(ctx, database); err != nil {
				return 0, err
			}
			return 1, nil
		},
	}, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Migrate brings the schema up to date: SQL migrations for postgres, index
// creation for mongo. It returns the number of steps applied.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	return s.migrate(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
