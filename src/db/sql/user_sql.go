package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"voicepay-server/src/models"
)

// CreateUser inserts the user and its security questions in one transaction.
// Balance and CreatedAt are filled from the database defaults.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING balance, created_at
	`
	err = tx.QueryRow(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash).
		Scan(&user.Balance, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	batch := &pgx.Batch{}
	for i, q := range user.SecurityQuestions {
		batch.Queue(`
			INSERT INTO security_questions (user_id, position, question, answer_hash)
			VALUES ($1, $2, $3, $4)
		`, user.ID, i, q.Question, q.Answer)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to store security questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, balance, created_at
		FROM users
		WHERE email = $1
	`
	return s.getUser(ctx, query, email)
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, balance, created_at
		FROM users
		WHERE id = $1
	`
	return s.getUser(ctx, query, id)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Balance,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT question, answer_hash
		FROM security_questions
		WHERE user_id = $1
		ORDER BY position
	`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch security questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q models.SecurityQuestion
		if err := rows.Scan(&q.Question, &q.Answer); err != nil {
			return nil, err
		}
		user.SecurityQuestions = append(user.SecurityQuestions, q)
	}
	return &user, rows.Err()
}

// GetPublicUserByEmail serves the sanitized profile, reading through the user cache.
func (s *Store) GetPublicUserByEmail(ctx context.Context, email string) (*models.PublicUser, error) {
	if u, ok := s.users.GetByEmail(email); ok {
		return &u, nil
	}
	query := `SELECT id, username, email, balance FROM users WHERE email = $1`
	return s.getPublicUser(ctx, query, email)
}

func (s *Store) GetPublicUserByID(ctx context.Context, id uuid.UUID) (*models.PublicUser, error) {
	if u, ok := s.users.GetByID(id); ok {
		return &u, nil
	}
	query := `SELECT id, username, email, balance FROM users WHERE id = $1`
	return s.getPublicUser(ctx, query, id)
}

func (s *Store) getPublicUser(ctx context.Context, query string, arg any) (*models.PublicUser, error) {
	var u models.PublicUser
	err := s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	s.users.Set(u)
	return &u, nil
}

// SearchUsersByName returns up to limit users whose username contains any of
// the given fragments, ignoring case.
func (s *Store) SearchUsersByName(ctx context.Context, fragments []string, limit int) ([]models.Contact, error) {
	var (
		conds []string
		args  []any
	)
	for _, f := range fragments {
		if f == "" {
			continue
		}
		args = append(args, "%"+escapeLike(f)+"%")
		conds = append(conds, fmt.Sprintf("username ILIKE $%d", len(args)))
	}
	if len(conds) == 0 {
		return nil, nil
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, username, email
		FROM users
		WHERE %s
		ORDER BY created_at
		LIMIT $%d
	`, strings.Join(conds, " OR "), len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
