package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"voicepay-server/src/models"
)

func (s *Store) CreateTransaction(ctx context.Context, receiver string, amount float64) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (id, receiver, amount)
		VALUES ($1, $2, $3)
		RETURNING id, receiver, amount, timestamp
	`
	var t models.Transaction
	err := s.pool.QueryRow(ctx, query, uuid.New(), receiver, amount).
		Scan(&t.ID, &t.Receiver, &t.Amount, &t.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return &t, nil
}

// ListTransactions returns the most recent transactions first.
func (s *Store) ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	query := `
		SELECT id, receiver, amount, timestamp
		FROM transactions
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Receiver, &t.Amount, &t.Timestamp); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
