package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	balance       DOUBLE PRECISION NOT NULL DEFAULT 10000,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS security_questions (
	id          BIGSERIAL PRIMARY KEY,
	user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	position    INT NOT NULL,
	question    TEXT NOT NULL,
	answer_hash TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS security_questions_user_id_idx ON security_questions (user_id, position);

CREATE TABLE IF NOT EXISTS transactions (
	id        UUID PRIMARY KEY,
	receiver  TEXT NOT NULL,
	amount    DOUBLE PRECISION NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
