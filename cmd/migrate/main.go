package main

import (
	"database/sql"
	"time"

	"holdem-engine/internal/config"
	"holdem-engine/pkg/db"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Instance()
	dbh := waitForDB(cfg.PGDSN)
	defer dbh.Close()

	if err := db.Migrate(logrus.StandardLogger(), dbh, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}
}

func waitForDB(dsn string) *sql.DB {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			dbh, err := db.Open(dsn)
			if err == nil {
				return dbh
			}

			logrus.WithError(err).Debug("database is not ready")
			time.Sleep(time.Millisecond * 500)
		}
	}
}
