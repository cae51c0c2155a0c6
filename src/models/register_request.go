package models

type RegisterRequest struct {
	Username          string             `json:"username"`
	Email             string             `json:"email"`
	Password          string             `json:"password"`
	SecurityQuestions []SecurityQuestion `json:"securityQuestions"`
}
