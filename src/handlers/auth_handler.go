package handlers

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	db "voicepay-server/src/db/sql"
	"voicepay-server/src/logger"
	"voicepay-server/src/middleware"
	"voicepay-server/src/models"
	"voicepay-server/src/util"
)

func Register(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("Failed to decode register request body")
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}

		if len(req.SecurityQuestions) == 0 {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{
				"error": "At least one security question is required.",
			})
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		req.Username = strings.TrimSpace(req.Username)

		passwordHash, err := util.HashPassword(req.Password)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Password is too long"})
				return
			}
			log.Error().Err(err).Str("email", req.Email).Msg("Failed to hash password")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Registration failed"})
			return
		}

		questions := make([]models.SecurityQuestion, 0, len(req.SecurityQuestions))
		for _, q := range req.SecurityQuestions {
			answerHash, err := util.HashAnswer(q.Answer)
			if err != nil {
				if errors.Is(err, bcrypt.ErrPasswordTooLong) {
					middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Security answer is too long"})
					return
				}
				log.Error().Err(err).Str("email", req.Email).Msg("Failed to hash security answer")
				middleware.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Registration failed"})
				return
			}
			questions = append(questions, models.SecurityQuestion{Question: q.Question, Answer: answerHash})
		}

		user := &models.User{
			Username:          req.Username,
			Email:             req.Email,
			PasswordHash:      passwordHash,
			SecurityQuestions: questions,
		}
		if err := users.CreateUser(r.Context(), user); err != nil {
			if errors.Is(err, db.ErrDuplicateEmail) {
				log.Warn().Str("email", req.Email).Msg("Registration failed - email already exists")
				middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Email is already registered"})
				return
			}
			log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Registration failed"})
			return
		}

		log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("Successful registration")
		middleware.WriteJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully!"})
	}
}

func Login(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Warn().Err(err).Msg("Failed to decode login request body")
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid request"})
			return
		}

		user, err := users.GetUserByEmail(r.Context(), strings.TrimSpace(credentials.Email))
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": false, "message": "User not found"})
				return
			}
			log.Error().Err(err).Str("email", credentials.Email).Msg("Failed to find user during login")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Server error"})
			return
		}

		if !util.CheckPassword(user.PasswordHash, credentials.Password) {
			log.Warn().Str("email", credentials.Email).Str("remote_addr", r.RemoteAddr).Msg("Invalid password attempt")
			middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Incorrect password"})
			return
		}

		if len(user.SecurityQuestions) == 0 {
			log.Error().Str("user_id", user.ID.String()).Msg("User has no security questions")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Server error"})
			return
		}

		question := user.SecurityQuestions[rand.IntN(len(user.SecurityQuestions))].Question

		log.Info().Str("user_id", user.ID.String()).Msg("Password accepted, awaiting security answer")
		middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "securityQuestion": question})
	}
}

// VerifySecurity accepts an answer matching any of the user's questions, not
// only the one shown at login.
func VerifySecurity(users UserStore, tokens *util.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req struct {
			Email          string `json:"email"`
			SecurityAnswer string `json:"securityAnswer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("Failed to decode verify-security request body")
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid request"})
			return
		}

		user, err := users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": false, "message": "User not found"})
				return
			}
			log.Error().Err(err).Str("email", req.Email).Msg("Failed to find user during security verification")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Server error"})
			return
		}

		valid := false
		for _, q := range user.SecurityQuestions {
			if util.CheckAnswer(q.Answer, req.SecurityAnswer) {
				valid = true
				break
			}
		}
		if !valid {
			log.Warn().Str("user_id", user.ID.String()).Msg("Incorrect security answer")
			middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Incorrect security answer"})
			return
		}

		token, err := tokens.Issue(user.ID, user.Email)
		if err != nil {
			log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to generate session token")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Server error"})
			return
		}

		log.Info().Str("user_id", user.ID.String()).Msg("Successful login")
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    user.Public(),
			"token":   token,
		})
	}
}
