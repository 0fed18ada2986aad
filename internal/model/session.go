package model

import (
	"strings"
	"time"
)

// Points awarded or deducted when a challenge is resolved
const (
	PointsCompleted = 5
	PenaltySkipped  = 3
)

// SessionID uniquely identifies a truth-or-dare session
type SessionID string

// SessionState represents the current phase of a truth-or-dare session
type SessionState string

const (
	SessionStateSelectingMode        SessionState = "selecting_mode"
	SessionStateSelectingPlayerCount SessionState = "selecting_player_count"
	SessionStateAddingPlayers        SessionState = "adding_players"
	SessionStateAwaitingChoice       SessionState = "awaiting_choice"
	SessionStateChallengeShown       SessionState = "challenge_shown"
)

// Outcome is how the active player resolved a challenge
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeSkipped   Outcome = "skipped"
)

// ParseOutcome converts a raw string to an Outcome
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeCompleted, OutcomeSkipped:
		return Outcome(s), nil
	}
	return "", ErrInvalidOutcome
}

// Player is a session-scoped participant
type Player struct {
	Name   string
	UserID *UserID // set when the player is linked to a registered user
	Score  int     // never negative
}

// Challenge is the question currently shown to the active player
type Challenge struct {
	QuestionID QuestionID
	Type       ChallengeType
	Content    string // already resolved for the requested locale
	Locale     Locale
}

// Session is one play-through of truth-or-dare
type Session struct {
	ID          SessionID
	State       SessionState
	Mode        Mode
	TargetCount int
	Players     []Player // insertion order is turn order
	Turn        int      // index into Players, valid once play begins
	Challenge   *Challenge
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSession creates a session waiting for a mode
func NewSession(id SessionID, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     SessionStateSelectingMode,
		Players:   []Player{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CurrentPlayer returns the player whose turn it is, or nil before play begins
func (s *Session) CurrentPlayer() *Player {
	if !s.InPlay() || len(s.Players) == 0 {
		return nil
	}
	return &s.Players[s.Turn]
}

// InPlay reports whether the roster is complete and turns are running
func (s *Session) InPlay() bool {
	return s.State == SessionStateAwaitingChoice || s.State == SessionStateChallengeShown
}

// SelectMode chooses the content tier for the session
func (s *Session) SelectMode(mode Mode) error {
	if s.State != SessionStateSelectingMode {
		return ErrInvalidTransition
	}
	if !mode.IsValid() {
		return ErrInvalidMode
	}
	s.Mode = mode
	s.State = SessionStateSelectingPlayerCount
	return nil
}

// SetPlayerCount stores the target roster size and clears any stale roster
func (s *Session) SetPlayerCount(n int) error {
	if s.State != SessionStateSelectingPlayerCount && s.State != SessionStateAddingPlayers {
		return ErrInvalidTransition
	}
	if n <= 0 {
		return ErrInvalidPlayerCount
	}
	s.TargetCount = n
	s.Players = []Player{}
	s.Turn = 0
	s.State = SessionStateAddingPlayers
	return nil
}

// AddPlayer appends a player to the roster. Once the roster reaches the
// target size the session moves to the first player's turn.
func (s *Session) AddPlayer(name string, userID *UserID) error {
	if s.State != SessionStateAddingPlayers {
		return ErrInvalidTransition
	}
	if len(s.Players) >= s.TargetCount {
		return ErrRosterFull
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBlankPlayerName
	}
	for _, p := range s.Players {
		if p.Name == name {
			return ErrDuplicatePlayerName
		}
	}

	s.Players = append(s.Players, Player{Name: name, UserID: userID})
	if len(s.Players) == s.TargetCount {
		s.Turn = 0
		s.State = SessionStateAwaitingChoice
	}
	return nil
}

// ShowChallenge displays q to the current player in the given locale
func (s *Session) ShowChallenge(q *Question, locale Locale) error {
	if s.State != SessionStateAwaitingChoice {
		return ErrInvalidTransition
	}
	s.Challenge = &Challenge{
		QuestionID: q.ID,
		Type:       q.Type,
		Content:    q.DisplayContent(locale),
		Locale:     locale,
	}
	s.State = SessionStateChallengeShown
	return nil
}

// Resolution describes the effect of resolving a challenge
type Resolution struct {
	Player  Player // the player who resolved, with the updated score
	Outcome Outcome
	Delta   int // the change actually applied to the player's score
}

// Resolve applies the outcome to the current player, clears the challenge
// and passes the turn to the next player
func (s *Session) Resolve(outcome Outcome) (Resolution, error) {
	if s.State != SessionStateChallengeShown {
		return Resolution{}, ErrInvalidTransition
	}

	var delta int
	player := &s.Players[s.Turn]
	switch outcome {
	case OutcomeCompleted:
		delta = PointsCompleted
	case OutcomeSkipped:
		// Clamp at zero; the applied delta is what gets recorded
		delta = -min(player.Score, PenaltySkipped)
	default:
		return Resolution{}, ErrInvalidOutcome
	}
	player.Score += delta

	res := Resolution{Player: *player, Outcome: outcome, Delta: delta}

	s.Challenge = nil
	s.Turn = (s.Turn + 1) % len(s.Players)
	s.State = SessionStateAwaitingChoice
	return res, nil
}
