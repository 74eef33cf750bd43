package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the idempotent DDL for all application tables. Import history
// errors are stored as JSONB since they are written once and read whole.
// All rows referencing a user cascade on account deletion; in normal
// operation products are only soft-deleted, the cascade covers the physical
// user delete.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	phone         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id              BIGSERIAL PRIMARY KEY,
	name            TEXT NOT NULL,
	production_date DATE NOT NULL,
	shelf_life_days INT NOT NULL CHECK (shelf_life_days >= 0),
	reminder_days   INT NOT NULL DEFAULT 3 CHECK (reminder_days >= 0),
	owner_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	is_deleted      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_products_owner ON products(owner_id) WHERE NOT is_deleted;
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC);

CREATE TABLE IF NOT EXISTS import_history (
	id            BIGSERIAL PRIMARY KEY,
	owner_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	filename      TEXT NOT NULL,
	total_count   INT NOT NULL,
	success_count INT NOT NULL,
	fail_count    INT NOT NULL,
	status        TEXT NOT NULL,
	errors        JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_import_history_owner ON import_history(owner_id, created_at DESC);

CREATE TABLE IF NOT EXISTS logs (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	action     TEXT NOT NULL,
	details    JSONB,
	ip_address TEXT,
	user_agent TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_logs_user ON logs(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_logs_action ON logs(action);
`

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
