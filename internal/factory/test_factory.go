package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/partygames/internal/dependencies/mocks"
	"github.com/mcoot/partygames/internal/metrics"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/storage/memory"
)

// TestAdminUsername is the only admin of a TestApp
const TestAdminUsername = "admin"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Storage backing every store
	Storage *memory.Storage

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	stores := Stores{Questions: store, Scores: store, Users: store, Sessions: store}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := newWithDependencies(stores, mockClock, mockRandom, metrics.New(), authCfg, logger)
	app.adminUsers = []string{TestAdminUsername}

	return &TestApp{
		App:        app,
		Storage:    store,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// SeedQuestions adds one active question per (type, mode) pair, German
// content only for kids and bilingual otherwise
func (t *TestApp) SeedQuestions() error {
	ctx := context.Background()
	for _, m := range model.ValidModes() {
		for _, ct := range []model.ChallengeType{model.ChallengeTruth, model.ChallengeDare} {
			q := &model.Question{
				Type:      ct,
				Mode:      m,
				Content:   string(ct) + " " + string(m) + " (de)",
				Active:    true,
				CreatedAt: t.MockClock.Now(),
			}
			if m != model.ModeKids {
				en := string(ct) + " " + string(m) + " (en)"
				q.ContentEN = &en
			}
			if err := t.Storage.CreateQuestion(ctx, q); err != nil {
				return err
			}
		}
	}
	return nil
}
