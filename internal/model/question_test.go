package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseModeIsCaseSensitive(t *testing.T) {
	for _, m := range ValidModes() {
		parsed, err := ParseMode(string(m))
		assert.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	for _, raw := range []string{"", "Kids", "NORMAL", "spicy ", "adult"} {
		_, err := ParseMode(raw)
		assert.ErrorIs(t, err, ErrInvalidMode, raw)
	}
}

func TestParseChallengeType(t *testing.T) {
	_, err := ParseChallengeType("truth")
	assert.NoError(t, err)
	_, err = ParseChallengeType("dare")
	assert.NoError(t, err)
	_, err = ParseChallengeType("Truth")
	assert.ErrorIs(t, err, ErrInvalidChallengeType)
}

func TestParseLocaleDefaults(t *testing.T) {
	l, err := ParseLocale("")
	assert.NoError(t, err)
	assert.Equal(t, LocaleDE, l)

	_, err = ParseLocale("fr")
	assert.ErrorIs(t, err, ErrInvalidLocale)
}

func TestDisplayContent(t *testing.T) {
	en := "Dance"
	q := &Question{Content: "Tanze", ContentEN: &en}
	assert.Equal(t, "Tanze", q.DisplayContent(LocaleDE))
	assert.Equal(t, "Dance", q.DisplayContent(LocaleEN))

	q.ContentEN = nil
	assert.Equal(t, "Tanze", q.DisplayContent(LocaleEN))
}

func TestIsEligible(t *testing.T) {
	q := &Question{Type: ChallengeDare, Mode: ModeSpicy, Active: true}
	assert.True(t, q.IsEligible(ChallengeDare, ModeSpicy))
	assert.False(t, q.IsEligible(ChallengeTruth, ModeSpicy))
	assert.False(t, q.IsEligible(ChallengeDare, ModeKids))

	q.Active = false
	assert.False(t, q.IsEligible(ChallengeDare, ModeSpicy))
}

func TestQuestionFilterMatches(t *testing.T) {
	inactive := false
	q := &Question{Type: ChallengeTruth, Mode: ModeKids, Active: true}

	assert.True(t, QuestionFilter{}.Matches(q))
	assert.True(t, QuestionFilter{Type: ChallengeTruth}.Matches(q))
	assert.False(t, QuestionFilter{Mode: ModeNormal}.Matches(q))
	assert.False(t, QuestionFilter{Active: &inactive}.Matches(q))
}

func TestQuestionValidate(t *testing.T) {
	q := &Question{Type: ChallengeTruth, Mode: ModeKids, Content: "Frage"}
	assert.NoError(t, q.Validate())

	assert.ErrorIs(t, (&Question{Type: "lie", Mode: ModeKids, Content: "x"}).Validate(), ErrInvalidChallengeType)
	assert.ErrorIs(t, (&Question{Type: ChallengeTruth, Mode: "adult", Content: "x"}).Validate(), ErrInvalidMode)
	assert.ErrorIs(t, (&Question{Type: ChallengeTruth, Mode: ModeKids, Content: "  "}).Validate(), ErrBlankContent)
}

func TestQuestionUpdateClearsTranslation(t *testing.T) {
	en := "Dance"
	q := &Question{Content: "Tanze", ContentEN: &en}

	QuestionUpdate{}.Apply(q)
	assert.NotNil(t, q.ContentEN)

	QuestionUpdate{ClearContentEN: true}.Apply(q)
	assert.Nil(t, q.ContentEN)
	assert.Equal(t, "Tanze", q.DisplayContent(LocaleEN))
}
