package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are idempotent so Migrate can run on every boot.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL,
		description TEXT,
		created_by  UUID NOT NULL REFERENCES users(id),
		is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS asset_snapshots (
		id            UUID PRIMARY KEY,
		asset_id      UUID NOT NULL REFERENCES assets(id),
		snapshot_date DATE NOT NULL,
		value         NUMERIC(20,2) NOT NULL CHECK (value >= 0),
		created_by    UUID NOT NULL REFERENCES users(id),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT asset_snapshots_asset_date_uniq UNIQUE (asset_id, snapshot_date)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id          UUID PRIMARY KEY,
		user_id     UUID NOT NULL,
		action_type TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id   TEXT,
		ip_address  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS asset_snapshots_asset_date_idx
		ON asset_snapshots (asset_id, snapshot_date DESC)`,
	`CREATE INDEX IF NOT EXISTS audit_logs_created_at_idx
		ON audit_logs (created_at DESC)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
