package handlers

import (
	"encoding/json"
	"net/http"

	"voicepay-server/src/logger"
	"voicepay-server/src/middleware"
)

func AnalyzeTranscript(classifier TranscriptClassifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req struct {
			Transcript string `json:"transcript"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Transcript == "" {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Transcript is required"})
			return
		}

		log.Info().Str("transcript", req.Transcript).Msg("Received transcript for analysis")
		result := classifier.Classify(r.Context(), req.Transcript)
		middleware.WriteJSON(w, http.StatusOK, result)
	}
}
