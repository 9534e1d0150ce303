package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"shop-catalog/internal/logger"
)

// Init opens the Postgres pool through the pgx stdlib driver and pings it
func Init(ctx context.Context, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Infof("database connection established")
	return sqlDB, nil
}

// Schema creates the products table used by the catalog when it is missing
const Schema = `
CREATE SCHEMA IF NOT EXISTS catalog;
CREATE TABLE IF NOT EXISTS catalog.products (
	id         text PRIMARY KEY,
	name       text NOT NULL,
	brand      text NOT NULL DEFAULT '',
	category   text NOT NULL DEFAULT '',
	price      numeric(12,2) CHECK (price IS NULL OR price >= 0),
	images     text[] NOT NULL DEFAULT '{}',
	in_stock   boolean NOT NULL DEFAULT true,
	position   integer NOT NULL DEFAULT 0,
	created_at timestamptz NOT NULL DEFAULT now()
);
`

// Migrate applies Schema
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	if _, err := sqlDB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
