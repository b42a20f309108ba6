package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/fleet-yard-manager/internal/config"
)

// Open connects to the yard database and verifies the connection.
// Pool sizing comes from the config so deployments can tune it per
// environment without a rebuild.
func Open(cfg config.Config) (*sql.DB, error) {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.DBUser, cfg.DBPass)
	}
	// parseTime maps DATETIME columns to time.Time; loc=UTC matches the
	// UTC_TIMESTAMP() stamps written by the allocation transactions.
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DBMaxConns)
	db.SetMaxIdleConns(cfg.DBMaxConns)
	db.SetConnMaxLifetime(cfg.DBConnLife)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
