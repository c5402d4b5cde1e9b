package db

import (
	"database/sql"
	"fmt"

	"github.com/Bernardstanislas/secretariat/internal/logging"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenORM layers GORM on an existing connection pool so both share it.
func OpenORM(conn *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm on postgres: %w", err)
	}

	logging.Info("GORM attached to Postgres pool")
	return db, nil
}
