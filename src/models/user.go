package models

import (
	"time"

	"github.com/google/uuid"
)

type SecurityQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// User is the stored account. PasswordHash and the Answer of each security
// question hold bcrypt hashes and never leave the server.
type User struct {
	ID                uuid.UUID
	Username          string
	Email             string
	PasswordHash      string
	SecurityQuestions []SecurityQuestion
	Balance           float64
	CreatedAt         time.Time
}

// PublicUser is the projection returned by lookups and security verification.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Balance  float64   `json:"balance"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Balance:  u.Balance,
	}
}

// Contact is a fuzzy-search suggestion.
type Contact struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
