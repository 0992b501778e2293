package workspace

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/dbsmedya/goslim/internal/config"
)

// Connect opens a server-level connection (no default schema) used for
// database lifecycle statements and information_schema queries.
func Connect(ctx context.Context, cfg *config.ConnectionConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping server: %w", err)
	}

	return db, nil
}

// BuildDSN renders the connection configuration into a go-sql-driver DSN.
// Socket addressing takes precedence over host/port.
func BuildDSN(cfg *config.ConnectionConfig) string {
	if cfg.UsesSocket() {
		return fmt.Sprintf("%s:%s@unix(%s)/", cfg.User, cfg.Password, cfg.Socket)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
}
