package request

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,notblank,max=64"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Email    string  `json:"email" validate:"required,email"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the request body for a partial profile update
type UpdateUserRequest struct {
	Email        *string `json:"email" validate:"omitempty,email"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,max=2048"`
}

// AppendScoreRequest is the request body for appending a ledger entry.
// Points is a pointer so that an explicit zero is accepted and a missing value is not.
type AppendScoreRequest struct {
	PlayerName string `json:"playerName" validate:"required,notblank,max=64"`
	Points     *int   `json:"points" validate:"required"`
	IdentityID *int64 `json:"identityId"`
	GameType   string `json:"gameType" validate:"required,notblank,max=64"`
}

// CreateQuestionRequest is the request body for adding a question
type CreateQuestionRequest struct {
	Type      string  `json:"type" validate:"required,oneof=truth dare"`
	Mode      string  `json:"mode" validate:"required,oneof=kids normal spicy"`
	Content   string  `json:"content" validate:"required,notblank"`
	ContentEN *string `json:"contentEn" validate:"omitempty,notblank"`
	Active    *bool   `json:"active"`
}

// UpdateQuestionRequest is the request body for a partial question update.
// clearContentEn removes the translation and cannot be sent with contentEn.
type UpdateQuestionRequest struct {
	Type           *string `json:"type" validate:"omitempty,oneof=truth dare"`
	Mode           *string `json:"mode" validate:"omitempty,oneof=kids normal spicy"`
	Content        *string `json:"content" validate:"omitempty,notblank"`
	ContentEN      *string `json:"contentEn" validate:"omitempty,notblank"`
	ClearContentEN bool    `json:"clearContentEn" validate:"excluded_with=ContentEN"`
	Active         *bool   `json:"active"`
}

// SelectModeRequest is the request body for choosing a session mode
type SelectModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=kids normal spicy"`
}

// PlayerCountRequest is the request body for setting the roster size
type PlayerCountRequest struct {
	Count int `json:"count" validate:"gt=0"`
}

// AddPlayerRequest is the request body for adding a player.
// LinkSelf links the player to the authenticated caller.
type AddPlayerRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=64"`
	LinkSelf bool   `json:"linkSelf"`
}

// ChallengeRequest is the request body for drawing a truth or a dare
type ChallengeRequest struct {
	Type   string `json:"type" validate:"required,oneof=truth dare"`
	Locale string `json:"locale" validate:"omitempty,oneof=de en"`
}

// ResolveRequest is the request body for resolving the shown challenge
type ResolveRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=completed skipped"`
}
