package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")

	// Question errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrInvalidMode          = errors.New("invalid mode")
	ErrInvalidChallengeType = errors.New("invalid challenge type")
	ErrEmptyQuestionPool    = errors.New("no eligible questions for this type and mode")
	ErrBlankContent         = errors.New("question content must not be blank")

	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidTransition   = errors.New("operation not valid in the current session state")
	ErrInvalidPlayerCount  = errors.New("player count must be greater than zero")
	ErrBlankPlayerName     = errors.New("player name must not be blank")
	ErrDuplicatePlayerName = errors.New("player name already taken in this session")
	ErrRosterFull          = errors.New("roster is already full")
	ErrInvalidOutcome      = errors.New("invalid challenge outcome")
	ErrInvalidLocale       = errors.New("invalid locale")

	// Score errors
	ErrInvalidScoreEntry = errors.New("invalid score entry")
)
