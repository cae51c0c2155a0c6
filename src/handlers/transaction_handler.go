package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"voicepay-server/src/logger"
	"voicepay-server/src/middleware"
	"voicepay-server/src/util"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func AddTransaction(transactions TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req struct {
			Amount    any    `json:"amount"`
			Recipient string `json:"recipient"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("Failed to decode transaction request body")
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}

		amount, ok := util.ParseAmount(req.Amount)
		if !ok || amount == 0 || req.Recipient == "" {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Amount and recipient are required"})
			return
		}

		txn, err := transactions.CreateTransaction(r.Context(), req.Recipient, amount)
		if err != nil {
			log.Error().Err(err).Str("recipient", req.Recipient).Msg("Error recording transaction")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to record transaction"})
			return
		}

		log.Info().Str("transaction_id", txn.ID.String()).Str("recipient", txn.Receiver).Msg("Transaction recorded")
		middleware.WriteJSON(w, http.StatusCreated, map[string]any{
			"message":     "Transaction recorded",
			"transaction": txn,
		})
	}
}

// ListTransactions returns the most recent transactions to a signed-in user.
func ListTransactions(transactions TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		limit := defaultHistoryLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid limit"})
				return
			}
			limit = min(n, maxHistoryLimit)
		}

		list, err := transactions.ListTransactions(r.Context(), limit)
		if err != nil {
			log.Error().Err(err).Msg("Failed to list transactions")
			middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Server error"})
			return
		}

		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			log.Debug().Str("user_id", claims.UserID).Int("count", len(list)).Msg("Transactions listed")
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "transactions": list})
	}
}
