package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	appdb "voicepay-server/src/db"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

const uniqueViolation = "23505"

// Store runs the user and transaction queries against a shared pool.
type Store struct {
	pool  *pgxpool.Pool
	users *appdb.UserCache
}

func NewStore(pool *pgxpool.Pool, users *appdb.UserCache) *Store {
	return &Store{pool: pool, users: users}
}
