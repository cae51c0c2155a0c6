package handlers

import (
	"context"

	"github.com/google/uuid"

	"voicepay-server/src/intent"
	"voicepay-server/src/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetPublicUserByEmail(ctx context.Context, email string) (*models.PublicUser, error)
	GetPublicUserByID(ctx context.Context, id uuid.UUID) (*models.PublicUser, error)
	SearchUsersByName(ctx context.Context, fragments []string, limit int) ([]models.Contact, error)
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, receiver string, amount float64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
}

type TranscriptClassifier interface {
	Classify(ctx context.Context, transcript string) intent.TranscriptIntent
}
