package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mcoot/partygames/internal/api"
	"github.com/mcoot/partygames/internal/api/sse"
	"github.com/mcoot/partygames/internal/dependencies/clock"
	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/metrics"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/dice"
	"github.com/mcoot/partygames/internal/services/ledger"
	"github.com/mcoot/partygames/internal/services/questions"
	"github.com/mcoot/partygames/internal/services/truthordare"
	"github.com/mcoot/partygames/internal/storage"
	"github.com/mcoot/partygames/internal/storage/memory"
	"github.com/mcoot/partygames/internal/storage/postgres"
	redisstorage "github.com/mcoot/partygames/internal/storage/redis"
)

// Storage backend constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// Stores groups the storage interfaces the services depend on
type Stores struct {
	Questions storage.QuestionStore
	Scores    storage.ScoreLedger
	Users     storage.UserStore
	Sessions  storage.SessionStore
}

// App contains all wired application components
type App struct {
	// Storage
	Stores Stores

	// External dependencies
	Clock   clock.Clock
	Random  random.Random
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Services
	AuthService     *auth.Service
	QuestionService *questions.Service
	LedgerService   *ledger.Service
	DiceService     *dice.Service
	TruthOrDare     *truthordare.Controller
	SessionEvents   *sse.HubManager

	adminUsers    []string
	secureCookies bool
	closers       []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// DataStore selects where questions, scores and users live ("memory" or "postgres")
	// If empty, defaults to "memory"
	DataStore string
	// SessionStore selects where truth-or-dare sessions live ("memory" or "redis")
	// If empty, defaults to "memory"
	SessionStore string
	// RedisConfig holds Redis connection settings (required if SessionStore is "redis")
	// Eligible question pools are cached in the same Redis.
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if DataStore is "postgres")
	PostgresConfig *postgres.Config
	// AdminUsers are the usernames allowed to manage the question bank
	AdminUsers []string
	// SecureCookies marks the session cookie Secure
	SecureCookies bool
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var (
		stores  Stores
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	// A single memory store backs whatever is not configured elsewhere
	mem := memory.New()

	switch orDefault(cfg.DataStore, StorageTypeMemory) {
	case StorageTypeMemory:
		stores.Questions, stores.Scores, stores.Users = mem, mem, mem
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when DataStore is postgres")
		}
		db, err := postgres.Open(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		pg := postgres.New(db)
		closers = append(closers, pg)
		stores.Questions, stores.Scores, stores.Users = pg, pg, pg
	default:
		return nil, fmt.Errorf("invalid DataStore %q: must be 'memory' or 'postgres'", cfg.DataStore)
	}

	switch orDefault(cfg.SessionStore, StorageTypeMemory) {
	case StorageTypeMemory:
		stores.Sessions = mem
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			closeAll()
			return nil, errors.New("RedisConfig required when SessionStore is redis")
		}
		client, err := redisstorage.NewClient(*cfg.RedisConfig)
		if err != nil {
			closeAll()
			return nil, err
		}
		closers = append(closers, client)
		stores.Sessions = redisstorage.NewSessionStore(client, *cfg.RedisConfig)
		stores.Questions = redisstorage.NewQuestionCache(client, stores.Questions, *cfg.RedisConfig)
	default:
		closeAll()
		return nil, fmt.Errorf("invalid SessionStore %q: must be 'memory' or 'redis'", cfg.SessionStore)
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(stores, clock.New(), random.New(), metrics.New(), authCfg, logger)
	app.adminUsers = cfg.AdminUsers
	app.secureCookies = cfg.SecureCookies
	app.closers = closers
	return app, nil
}

// NewWithRedisClient wires an App whose sessions and question cache use an
// existing Redis client, with everything else in memory
func NewWithRedisClient(client *goredis.Client, redisCfg redisstorage.Config, cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	mem := memory.New()
	stores := Stores{
		Questions: redisstorage.NewQuestionCache(client, mem, redisCfg),
		Scores:    mem,
		Users:     mem,
		Sessions:  redisstorage.NewSessionStore(client, redisCfg),
	}
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	app := newWithDependencies(stores, clock.New(), random.New(), metrics.New(), authCfg, logger)
	app.adminUsers = cfg.AdminUsers
	return app
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(stores Stores, clk clock.Clock, rnd random.Random, m *metrics.Metrics, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	authService := auth.New(stores.Users, clk, logger, authCfg)
	questionService := questions.New(stores.Questions, clk, logger)
	ledgerService := ledger.New(stores.Scores, clk, logger)
	diceService := dice.New(rnd, m, logger)
	controller := truthordare.NewController(stores.Sessions, questionService, ledgerService, clk, rnd, m, logger)
	sessionEvents := sse.NewHubManager(m, logger)
	controller.SetWatcher(sessionEvents)

	return &App{
		Stores:          stores,
		Clock:           clk,
		Random:          rnd,
		Metrics:         m,
		Logger:          logger,
		AuthService:     authService,
		QuestionService: questionService,
		LedgerService:   ledgerService,
		DiceService:     diceService,
		TruthOrDare:     controller,
		SessionEvents:   sessionEvents,
	}
}

// Handler builds the HTTP router for the app
func (a *App) Handler() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:          a.Logger,
		Metrics:         a.Metrics,
		AuthService:     a.AuthService,
		QuestionService: a.QuestionService,
		LedgerService:   a.LedgerService,
		TruthOrDare:     a.TruthOrDare,
		SessionEvents:   a.SessionEvents,
		DiceService:     a.DiceService,
		AdminUsers:      a.adminUsers,
		SecureCookies:   a.secureCookies,
	})
}

// Close releases backend connections
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
