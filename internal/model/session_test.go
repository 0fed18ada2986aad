package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newPlayingSession(t *testing.T, names ...string) *Session {
	t.Helper()
	s := NewSession("sess-1", testNow)
	require.NoError(t, s.SelectMode(ModeNormal))
	require.NoError(t, s.SetPlayerCount(len(names)))
	for _, n := range names {
		require.NoError(t, s.AddPlayer(n, nil))
	}
	return s
}

func testQuestion(content string, en *string) *Question {
	return &Question{ID: 1, Type: ChallengeTruth, Mode: ModeNormal, Content: content, ContentEN: en, Active: true}
}

func TestNewSessionStartsSelectingMode(t *testing.T) {
	s := NewSession("sess-1", testNow)
	assert.Equal(t, SessionStateSelectingMode, s.State)
	assert.Empty(t, s.Players)
	assert.Nil(t, s.CurrentPlayer())
}

func TestSelectModeRejectsUnknownMode(t *testing.T) {
	s := NewSession("sess-1", testNow)
	assert.ErrorIs(t, s.SelectMode("Normal"), ErrInvalidMode)
	assert.Equal(t, SessionStateSelectingMode, s.State)
}

func TestSelectModeOnlyOnce(t *testing.T) {
	s := NewSession("sess-1", testNow)
	require.NoError(t, s.SelectMode(ModeKids))
	assert.ErrorIs(t, s.SelectMode(ModeSpicy), ErrInvalidTransition)
	assert.Equal(t, ModeKids, s.Mode)
}

func TestSetPlayerCountRequiresPositive(t *testing.T) {
	s := NewSession("sess-1", testNow)
	require.NoError(t, s.SelectMode(ModeKids))
	assert.ErrorIs(t, s.SetPlayerCount(0), ErrInvalidPlayerCount)
	assert.ErrorIs(t, s.SetPlayerCount(-2), ErrInvalidPlayerCount)
	assert.Equal(t, SessionStateSelectingPlayerCount, s.State)
}

func TestSetPlayerCountResetsRoster(t *testing.T) {
	s := NewSession("sess-1", testNow)
	require.NoError(t, s.SelectMode(ModeKids))
	require.NoError(t, s.SetPlayerCount(3))
	require.NoError(t, s.AddPlayer("Alice", nil))

	require.NoError(t, s.SetPlayerCount(2))
	assert.Empty(t, s.Players)
	assert.Equal(t, 2, s.TargetCount)
	assert.Equal(t, SessionStateAddingPlayers, s.State)
}

func TestAddPlayerRejectsBlankNames(t *testing.T) {
	s := NewSession("sess-1", testNow)
	require.NoError(t, s.SelectMode(ModeKids))
	require.NoError(t, s.SetPlayerCount(2))

	assert.ErrorIs(t, s.AddPlayer("", nil), ErrBlankPlayerName)
	assert.ErrorIs(t, s.AddPlayer("   \t", nil), ErrBlankPlayerName)
	assert.Empty(t, s.Players)
}

func TestAddPlayerTrimsAndRejectsDuplicates(t *testing.T) {
	s := NewSession("sess-1", testNow)
	require.NoError(t, s.SelectMode(ModeKids))
	require.NoError(t, s.SetPlayerCount(3))

	require.NoError(t, s.AddPlayer("  Alice ", nil))
	assert.Equal(t, "Alice", s.Players[0].Name)
	assert.ErrorIs(t, s.AddPlayer("Alice", nil), ErrDuplicatePlayerName)
	assert.Len(t, s.Players, 1)
}

func TestRosterCompleteStartsPlay(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("Player %d", i+1)
			}
			s := newPlayingSession(t, names...)

			assert.Equal(t, SessionStateAwaitingChoice, s.State)
			assert.Equal(t, 0, s.Turn)
			assert.Equal(t, "Player 1", s.CurrentPlayer().Name)
			for _, p := range s.Players {
				assert.Equal(t, 0, p.Score)
			}
		})
	}
}

func TestAddPlayerAfterPlayBeginsIsInvalid(t *testing.T) {
	s := newPlayingSession(t, "Alice")
	assert.ErrorIs(t, s.AddPlayer("Bob", nil), ErrInvalidTransition)
}

func TestShowChallengeResolvesLocale(t *testing.T) {
	en := "What is your biggest fear?"
	s := newPlayingSession(t, "Alice")

	require.NoError(t, s.ShowChallenge(testQuestion("Was ist deine größte Angst?", &en), LocaleEN))
	assert.Equal(t, SessionStateChallengeShown, s.State)
	assert.Equal(t, en, s.Challenge.Content)
}

func TestShowChallengeFallsBackToPrimaryContent(t *testing.T) {
	s := newPlayingSession(t, "Alice")

	require.NoError(t, s.ShowChallenge(testQuestion("A", nil), LocaleEN))
	assert.Equal(t, "A", s.Challenge.Content)
}

func TestShowChallengeTwiceIsInvalid(t *testing.T) {
	s := newPlayingSession(t, "Alice")
	require.NoError(t, s.ShowChallenge(testQuestion("A", nil), LocaleDE))
	assert.ErrorIs(t, s.ShowChallenge(testQuestion("B", nil), LocaleDE), ErrInvalidTransition)
}

func TestResolveWithoutChallengeIsInvalid(t *testing.T) {
	s := newPlayingSession(t, "Alice")
	_, err := s.Resolve(OutcomeCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResolveCompletedAwardsPoints(t *testing.T) {
	s := newPlayingSession(t, "Alice", "Bob")
	require.NoError(t, s.ShowChallenge(testQuestion("A", nil), LocaleDE))

	res, err := s.Resolve(OutcomeCompleted)
	require.NoError(t, err)

	assert.Equal(t, PointsCompleted, res.Delta)
	assert.Equal(t, "Alice", res.Player.Name)
	assert.Equal(t, 5, s.Players[0].Score)
	assert.Equal(t, 1, s.Turn)
	assert.Nil(t, s.Challenge)
	assert.Equal(t, SessionStateAwaitingChoice, s.State)
}

func TestResolveSkippedClampsDelta(t *testing.T) {
	cases := []struct {
		start     int
		wantDelta int
		wantScore int
	}{
		{start: 0, wantDelta: 0, wantScore: 0},
		{start: 2, wantDelta: -2, wantScore: 0},
		{start: 3, wantDelta: -3, wantScore: 0},
		{start: 10, wantDelta: -3, wantScore: 7},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("from %d", tc.start), func(t *testing.T) {
			s := newPlayingSession(t, "Alice")
			s.Players[0].Score = tc.start
			require.NoError(t, s.ShowChallenge(testQuestion("A", nil), LocaleDE))

			res, err := s.Resolve(OutcomeSkipped)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDelta, res.Delta)
			assert.Equal(t, tc.wantScore, s.Players[0].Score)
		})
	}
}

func TestScoreNeverNegative(t *testing.T) {
	s := newPlayingSession(t, "Alice", "Bob", "Carol")
	outcomes := []Outcome{OutcomeSkipped, OutcomeCompleted, OutcomeSkipped, OutcomeSkipped, OutcomeSkipped, OutcomeCompleted}

	for i := 0; i < 30; i++ {
		require.NoError(t, s.ShowChallenge(testQuestion("A", nil), LocaleDE))
		_, err := s.Resolve(outcomes[i%len(outcomes)])
		require.NoError(t, err)
		for _, p := range s.Players {
			assert.GreaterOrEqual(t, p.Score, 0)
		}
	}
}

func TestTurnPointerIsPeriodic(t *testing.T) {
	s := newPlayingSession(t, "Alice", "Bob", "Carol", "Dave")
	start := s.Turn

	for i := 0; i < len(s.Players); i++ {
		require.NoError(t, s.ShowChallenge(testQuestion("A", nil), LocaleDE))
		_, err := s.Resolve(OutcomeCompleted)
		require.NoError(t, err)
	}
	assert.Equal(t, start, s.Turn)
}

func TestResolveRejectsUnknownOutcome(t *testing.T) {
	s := newPlayingSession(t, "Alice")
	require.NoError(t, s.ShowChallenge(testQuestion("A", nil), LocaleDE))

	_, err := s.Resolve("forfeit")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	assert.Equal(t, SessionStateChallengeShown, s.State)
	assert.Equal(t, 0, s.Turn)
}

func TestAliceAndBobScenario(t *testing.T) {
	s := newPlayingSession(t, "Alice", "Bob")

	require.NoError(t, s.ShowChallenge(testQuestion("truth", nil), LocaleDE))
	res, err := s.Resolve(OutcomeCompleted)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Player.Score)
	assert.Equal(t, 1, s.Turn)
	assert.Equal(t, "Bob", s.CurrentPlayer().Name)

	dare := &Question{ID: 2, Type: ChallengeDare, Mode: ModeNormal, Content: "dare", Active: true}
	require.NoError(t, s.ShowChallenge(dare, LocaleDE))
	res, err = s.Resolve(OutcomeSkipped)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Delta)
	assert.Equal(t, 0, res.Player.Score)
	assert.Equal(t, 0, s.Turn)
}
