package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"voicepay-server/src/logger"
	"voicepay-server/src/middleware"
	"voicepay-server/src/util"
)

// MakePayment acknowledges a payment without moving money or checking that the receiver exists.
func MakePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req struct {
			Receiver    string `json:"receiver"`
			Amount      any    `json:"amount"`
			SenderEmail string `json:"senderEmail"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("Failed to decode payment request body")
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid payment details"})
			return
		}

		amount, ok := util.ParseAmount(req.Amount)
		if req.Receiver == "" || !ok || amount <= 0 {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid payment details"})
			return
		}

		log.Info().
			Str("sender", req.SenderEmail).
			Str("receiver", req.Receiver).
			Float64("amount", amount).
			Msg("Payment acknowledged")
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": fmt.Sprintf("Payment of ₹%s to %s processed", util.FormatAmount(amount), req.Receiver),
		})
	}
}
