package model

import (
	"strings"
	"time"
)

// GameTypeTruthOrDare labels ledger entries produced by truth-or-dare sessions
const GameTypeTruthOrDare = "truth-or-dare"

// ScoreEntryID uniquely identifies a ledger entry
type ScoreEntryID int64

// ScoreEntry is one immutable point delta in the ledger
type ScoreEntry struct {
	ID         ScoreEntryID
	UserID     *UserID // nil for unlinked entries
	PlayerName string
	Points     int // signed delta
	GameType   string
	CreatedAt  time.Time
}

// Validate checks the fields an entry needs before it is appended
func (e *ScoreEntry) Validate() error {
	if strings.TrimSpace(e.PlayerName) == "" || strings.TrimSpace(e.GameType) == "" {
		return ErrInvalidScoreEntry
	}
	return nil
}

// LeaderboardEntry is one aggregated group in the leaderboard.
// A group is the linked user when present, otherwise the player name.
type LeaderboardEntry struct {
	UserID     *UserID
	PlayerName string
	Points     int
}

// LeaderboardKey returns the grouping key for an entry
func LeaderboardKey(e *ScoreEntry) string {
	if e.UserID != nil {
		return "user:" + e.UserID.String()
	}
	return "name:" + e.PlayerName
}
