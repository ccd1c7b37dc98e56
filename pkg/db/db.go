package db

import (
	"database/sql"
	"fmt"
	"sync"

	"holdem-engine/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // needed
	_ "github.com/lib/pq"                                // needed
	"github.com/sirupsen/logrus"
)

var (
	instance *sql.DB
	mu       sync.Mutex
)

// Instance returns a database instance
// The DSN comes from the loaded configuration
func Instance() (*sql.DB, error) {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		db, err := Open(config.Instance().PGDSN)
		if err != nil {
			return nil, err
		}

		instance = db
	}

	return instance, nil
}

// Open opens and pings a Postgres connection
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs the migrations found in migrationsPath
func Migrate(logger logrus.FieldLogger, db *sql.DB, migrationsPath string) error {
	logger.WithField("migrationsPath", migrationsPath).Info("running migrations")
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

// Scanner is an interface that sql should've provided
// No snark here...
type Scanner interface {
	Scan(...interface{}) error
}
