package storage

import (
	"context"

	"github.com/mcoot/partygames/internal/model"
)

// QuestionStore persists the question bank
type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *model.Question) error
	GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error)
	UpdateQuestion(ctx context.Context, q *model.Question) error
	ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, error)
	// ListEligibleQuestions returns active questions matching type and mode, in no particular order
	ListEligibleQuestions(ctx context.Context, t model.ChallengeType, m model.Mode) ([]*model.Question, error)
	CountQuestions(ctx context.Context) (int, error)
}

// ScoreLedger is the append-only score entry log
type ScoreLedger interface {
	AppendScore(ctx context.Context, entry *model.ScoreEntry) error
	// Leaderboard returns the top groups by summed points, descending
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	TotalForUser(ctx context.Context, userID model.UserID) (int, error)
}

// UserStore persists registered users
type UserStore interface {
	// CreateUser assigns an ID; returns model.ErrUsernameExists on a taken username
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// SessionStore holds ephemeral truth-or-dare sessions
type SessionStore interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
}

// Storage combines every store; the memory backend implements all of it
type Storage interface {
	QuestionStore
	ScoreLedger
	UserStore
	SessionStore
}
