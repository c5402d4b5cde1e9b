package db

import (
	"fmt"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const connectAttempts = 10

// ConnectPostgres opens the sqlx pool, retrying while the database starts up.
func ConnectPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < connectAttempts; i++ {
		conn, err = sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			conn.SetMaxOpenConns(10)
			conn.SetConnMaxIdleTime(5 * time.Minute)
			logging.Info("Connected to Postgres", "host", cfg.Host, "db", cfg.Name)
			return conn, nil
		}
		logging.Warn("Postgres not ready", "attempt", i+1, "error", err)
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("connect postgres %s:%s: %w", cfg.Host, cfg.Port, err)
}
