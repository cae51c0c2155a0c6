package middleware

import (
	"net/http"
)

// DemoModeMiddleware blocks writes other than the sign-in flow and transcript
// analysis, so a public demo cannot record payments or transactions.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	allowedPosts := map[string]bool{
		"/login":              true,
		"/register":           true,
		"/verify-security":    true,
		"/analyze-transcript": true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isDemo && r.Method != http.MethodGet && r.Method != http.MethodOptions {
				if r.Method == http.MethodPost && allowedPosts[r.URL.Path] {
					next.ServeHTTP(w, r)
					return
				}
				WriteJSON(w, http.StatusForbidden, map[string]any{
					"success": false,
					"message": "Demo mode: this action is disabled",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
