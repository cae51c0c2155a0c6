package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	db "voicepay-server/src/db/sql"
	"voicepay-server/src/logger"
	"voicepay-server/src/middleware"
	"voicepay-server/src/models"
	"voicepay-server/src/util"
)

const (
	maxSuggestions   = 5
	noContactMessage = "No similar contacts exist"
)

func GetUserByEmail(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		user, err := users.GetPublicUserByEmail(r.Context(), email)
		writeUserLookup(w, r, user, err)
	}
}

func GetUserByID(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// An id that is not a UUID cannot belong to any user.
		id, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			writeUserLookup(w, r, nil, db.ErrUserNotFound)
			return
		}
		user, err := users.GetPublicUserByID(r.Context(), id)
		writeUserLookup(w, r, user, err)
	}
}

func writeUserLookup(w http.ResponseWriter, r *http.Request, user *models.PublicUser, err error) {
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			middleware.WriteJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "User not found"})
			return
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to fetch user data")
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Server error"})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// SearchUsers suggests contacts whose username contains either half of the query.
func SearchUsers(users UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		first, second, ok := util.SplitSearchName(r.URL.Query().Get("name"))
		if !ok {
			writeSuggestions(w, nil)
			return
		}

		contacts, err := users.SearchUsersByName(r.Context(), []string{first, second}, maxSuggestions)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Error().Err(err).Str("name", first+second).Msg("Failed to fetch user suggestions")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"message": "Server error",
				"data":    []models.Contact{},
			})
			return
		}

		if len(contacts) > maxSuggestions {
			contacts = contacts[:maxSuggestions]
		}
		writeSuggestions(w, contacts)
	}
}

func writeSuggestions(w http.ResponseWriter, contacts []models.Contact) {
	if len(contacts) == 0 {
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"message": noContactMessage,
			"data":    []models.Contact{},
		})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"message": "", "data": contacts})
}
