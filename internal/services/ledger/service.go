package ledger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/partygames/internal/dependencies/clock"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// Leaderboard size limits
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Service is the write and read side of the score ledger
type Service struct {
	store  storage.ScoreLedger
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new ledger Service
func New(store storage.ScoreLedger, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Entry is the input to Append
type Entry struct {
	UserID     *model.UserID
	PlayerName string
	Points     int
	GameType   string
}

// Append validates and records one score entry, stamping it with the
// current time
func (s *Service) Append(ctx context.Context, e Entry) (*model.ScoreEntry, error) {
	entry := &model.ScoreEntry{
		UserID:     e.UserID,
		PlayerName: strings.TrimSpace(e.PlayerName),
		Points:     e.Points,
		GameType:   strings.TrimSpace(e.GameType),
		CreatedAt:  s.clock.Now(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.AppendScore(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Debug("score recorded",
		slog.String("player", entry.PlayerName),
		slog.Int("points", entry.Points),
		slog.String("game_type", entry.GameType),
	)
	return entry, nil
}

// Leaderboard returns the top groups by summed points. Non-positive limits
// use DefaultLimit and large ones are capped at MaxLimit.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return s.store.Leaderboard(ctx, ClampLimit(limit))
}

// TotalForUser sums every entry linked to a user; zero when there are none
func (s *Service) TotalForUser(ctx context.Context, userID model.UserID) (int, error) {
	return s.store.TotalForUser(ctx, userID)
}

// ClampLimit normalises a requested leaderboard size
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
