package model

import (
	"strings"
	"time"
)

// Mode is the content-rating tier of a question
type Mode string

const (
	ModeKids   Mode = "kids"
	ModeNormal Mode = "normal"
	ModeSpicy  Mode = "spicy"
)

// ValidModes returns all modes in display order
func ValidModes() []Mode {
	return []Mode{ModeKids, ModeNormal, ModeSpicy}
}

// IsValid reports whether m is one of the closed set of modes.
// Matching is exact and case-sensitive.
func (m Mode) IsValid() bool {
	switch m {
	case ModeKids, ModeNormal, ModeSpicy:
		return true
	}
	return false
}

// ParseMode converts a raw string to a Mode
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.IsValid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// ChallengeType distinguishes truths from dares
type ChallengeType string

const (
	ChallengeTruth ChallengeType = "truth"
	ChallengeDare  ChallengeType = "dare"
)

// IsValid reports whether t is truth or dare
func (t ChallengeType) IsValid() bool {
	return t == ChallengeTruth || t == ChallengeDare
}

// ParseChallengeType converts a raw string to a ChallengeType
func ParseChallengeType(s string) (ChallengeType, error) {
	t := ChallengeType(s)
	if !t.IsValid() {
		return "", ErrInvalidChallengeType
	}
	return t, nil
}

// Locale selects which language variant of a question is displayed
type Locale string

const (
	LocaleDE Locale = "de" // primary language, always present
	LocaleEN Locale = "en" // secondary language, optional per question
)

// DefaultLocale is used when a client does not ask for one
const DefaultLocale = LocaleDE

// ParseLocale converts a raw string to a Locale, defaulting when empty
func ParseLocale(s string) (Locale, error) {
	switch Locale(s) {
	case "":
		return DefaultLocale, nil
	case LocaleDE, LocaleEN:
		return Locale(s), nil
	}
	return "", ErrInvalidLocale
}

// QuestionID uniquely identifies a persisted question
type QuestionID int64

// Question is a truth or dare prompt with a primary and optional secondary language text
type Question struct {
	ID        QuestionID
	Type      ChallengeType
	Mode      Mode
	Content   string  // primary language (German)
	ContentEN *string // secondary language (English), nil when untranslated
	Active    bool    // false means soft-deleted
	CreatedAt time.Time
}

// DisplayContent resolves the text shown for the given locale, falling back
// to the primary content when no secondary translation exists
func (q *Question) DisplayContent(locale Locale) string {
	if locale == LocaleEN && q.ContentEN != nil {
		return *q.ContentEN
	}
	return q.Content
}

// Validate checks type, mode and primary content
func (q *Question) Validate() error {
	if !q.Type.IsValid() {
		return ErrInvalidChallengeType
	}
	if !q.Mode.IsValid() {
		return ErrInvalidMode
	}
	if strings.TrimSpace(q.Content) == "" {
		return ErrBlankContent
	}
	return nil
}

// IsEligible reports whether the question can be drawn for the given type and mode
func (q *Question) IsEligible(t ChallengeType, m Mode) bool {
	return q.Active && q.Type == t && q.Mode == m
}

// QuestionFilter narrows an administrative question listing. Zero values match everything.
type QuestionFilter struct {
	Type   ChallengeType
	Mode   Mode
	Active *bool
}

// Matches reports whether q passes the filter
func (f QuestionFilter) Matches(q *Question) bool {
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	if f.Mode != "" && q.Mode != f.Mode {
		return false
	}
	if f.Active != nil && q.Active != *f.Active {
		return false
	}
	return true
}

// QuestionUpdate carries a partial update; nil fields are left untouched.
// ClearContentEN drops the translation and wins over ContentEN.
type QuestionUpdate struct {
	Type           *ChallengeType
	Mode           *Mode
	Content        *string
	ContentEN      *string
	ClearContentEN bool
	Active         *bool
}

// Apply mutates q with every non-nil field of the update
func (u QuestionUpdate) Apply(q *Question) {
	if u.Type != nil {
		q.Type = *u.Type
	}
	if u.Mode != nil {
		q.Mode = *u.Mode
	}
	if u.Content != nil {
		q.Content = *u.Content
	}
	if u.ContentEN != nil {
		en := *u.ContentEN
		q.ContentEN = &en
	}
	if u.ClearContentEN {
		q.ContentEN = nil
	}
	if u.Active != nil {
		q.Active = *u.Active
	}
}
