package model

import (
	"strconv"
	"time"
)

// UserID uniquely identifies a registered user
type UserID int64

func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// User is a persisted, authenticated identity
type User struct {
	ID           UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	Email        string
	Bio          *string
	ProfileImage *string // reference to an uploaded avatar
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries a partial profile update; nil fields are left untouched
type UserUpdate struct {
	Email        *string
	Bio          *string
	ProfileImage *string
}

// IsEmpty reports whether the update changes nothing
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.Bio == nil && u.ProfileImage == nil
}

// Apply mutates user with every non-nil field of the update
func (u UserUpdate) Apply(user *User) {
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.Bio != nil {
		bio := *u.Bio
		user.Bio = &bio
	}
	if u.ProfileImage != nil {
		img := *u.ProfileImage
		user.ProfileImage = &img
	}
}
