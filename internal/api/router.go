package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partygames/internal/api/apierr"
	"github.com/mcoot/partygames/internal/api/handler"
	"github.com/mcoot/partygames/internal/api/middleware"
	"github.com/mcoot/partygames/internal/api/response"
	"github.com/mcoot/partygames/internal/api/sse"
	"github.com/mcoot/partygames/internal/metrics"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/dice"
	"github.com/mcoot/partygames/internal/services/ledger"
	"github.com/mcoot/partygames/internal/services/questions"
	"github.com/mcoot/partygames/internal/services/truthordare"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
	AuthService     *auth.Service
	QuestionService *questions.Service
	LedgerService   *ledger.Service
	TruthOrDare     *truthordare.Controller
	SessionEvents   *sse.HubManager
	DiceService     *dice.Service
	// AdminUsers are the usernames allowed to manage the question bank
	AdminUsers []string
	// SecureCookies marks the session cookie Secure (HTTPS deployments)
	SecureCookies bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService, cfg.SecureCookies)
	questionHandler := handler.NewQuestionHandler(cfg.QuestionService)
	scoreHandler := handler.NewScoreHandler(cfg.LedgerService)
	todHandler := handler.NewTruthOrDareHandler(cfg.TruthOrDare, cfg.SessionEvents)
	diceHandler := handler.NewDiceHandler(cfg.DiceService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	adminMiddleware := middleware.Admin(cfg.AdminUsers)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	authed := func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }
	optional := func(h http.HandlerFunc) http.Handler { return optionalAuthMiddleware(h) }
	admin := func(h http.HandlerFunc) http.Handler { return authMiddleware(adminMiddleware(h)) }

	// Prometheus scrape endpoint, outside the API
	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)
	api.Use(cfg.Metrics.Middleware)

	// Account routes
	api.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)
	api.Handle("/user", authed(userHandler.Me)).Methods(http.MethodGet)
	api.Handle("/user", authed(userHandler.Update)).Methods(http.MethodPatch)

	// Question bank: eligible pools are public, administration is not
	api.HandleFunc("/questions/{type}/{mode}", questionHandler.ListEligible).Methods(http.MethodGet)
	api.Handle("/questions", admin(questionHandler.List)).Methods(http.MethodGet)
	api.Handle("/questions", admin(questionHandler.Create)).Methods(http.MethodPost)
	api.Handle("/questions/import", admin(questionHandler.Import)).Methods(http.MethodPost)
	api.Handle("/questions/export", admin(questionHandler.Export)).Methods(http.MethodGet)
	api.Handle("/questions/{id:[0-9]+}", admin(questionHandler.Update)).Methods(http.MethodPatch)
	api.Handle("/questions/{id:[0-9]+}", admin(questionHandler.Delete)).Methods(http.MethodDelete)

	// Score ledger
	api.HandleFunc("/scores", scoreHandler.Leaderboard).Methods(http.MethodGet)
	api.Handle("/scores", optional(scoreHandler.Append)).Methods(http.MethodPost)
	api.Handle("/scores/me", authed(scoreHandler.Mine)).Methods(http.MethodGet)

	// Truth-or-dare sessions (identity optional; it only affects score linking)
	tod := api.PathPrefix("/truth-or-dare/sessions").Subrouter()
	tod.Use(optionalAuthMiddleware)
	tod.HandleFunc("", todHandler.Create).Methods(http.MethodPost)
	tod.HandleFunc("/{id}", todHandler.Get).Methods(http.MethodGet)
	tod.HandleFunc("/{id}", todHandler.Delete).Methods(http.MethodDelete)
	tod.HandleFunc("/{id}/events", todHandler.Events).Methods(http.MethodGet)
	tod.HandleFunc("/{id}/mode", todHandler.SelectMode).Methods(http.MethodPut)
	tod.HandleFunc("/{id}/player-count", todHandler.SetPlayerCount).Methods(http.MethodPut)
	tod.HandleFunc("/{id}/players", todHandler.AddPlayer).Methods(http.MethodPost)
	tod.HandleFunc("/{id}/challenge", todHandler.Draw).Methods(http.MethodPost)
	tod.HandleFunc("/{id}/resolve", todHandler.Resolve).Methods(http.MethodPost)

	// Dice game
	api.HandleFunc("/dice/roll", diceHandler.Roll).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}
