package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"voicepay-server/src/handlers"
	"voicepay-server/src/middleware"
	"voicepay-server/src/util"
)

type Options struct {
	AllowedOrigins []string
	IsDemo         bool
}

// Store is what the routes need from persistence.
type Store interface {
	handlers.UserStore
	handlers.TransactionStore
}

func NewRouter(
	log zerolog.Logger,
	store Store,
	classifier handlers.TranscriptClassifier,
	tokens *util.TokenIssuer,
	opts Options,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(opts.IsDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Auth
	r.Post("/register", handlers.Register(store))
	r.Post("/login", handlers.Login(store))
	r.Post("/verify-security", handlers.VerifySecurity(store, tokens))

	// Transcript analysis
	r.Post("/analyze-transcript", handlers.AnalyzeTranscript(classifier))

	// Users
	r.Get("/search-users", handlers.SearchUsers(store))
	r.Get("/user/{email}", handlers.GetUserByEmail(store))
	r.Get("/user/id/{userId}", handlers.GetUserByID(store))

	// Payments
	r.Post("/make-payment", handlers.MakePayment())
	r.Post("/transactions/add", handlers.AddTransaction(store))

	// Protected routes
	r.With(middleware.JWTAuthMiddleware(tokens)).Group(func(r chi.Router) {
		r.Get("/transactions", handlers.ListTransactions(store))
	})

	return r
}
