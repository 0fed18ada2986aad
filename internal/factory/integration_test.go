package factory

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/questions"
	"github.com/mcoot/partygames/internal/services/truthordare"
	redisstorage "github.com/mcoot/partygames/internal/storage/redis"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.SeedQuestions())
}

func (s *IntegrationSuite) register(username string) *model.User {
	user, _, err := s.app.AuthService.Register(s.ctx, auth.Registration{
		Username: username,
		Password: "secret123",
		Email:    username + "@example.com",
	})
	s.Require().NoError(err)
	return user
}

// Test: A full round where a linked player's applied deltas reach the ledger
func (s *IntegrationSuite) TestLinkedPlayerScoresReachLeaderboard() {
	alice := s.register("alice")
	identity := truthordare.UserIdentity(alice)
	s.app.MockRandom.QueueID("party-1")

	// Step 1: Set up the session
	session, err := s.app.TruthOrDare.CreateSession(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.SessionID("party-1"), session.ID)

	_, err = s.app.TruthOrDare.SelectMode(s.ctx, session.ID, model.ModeNormal)
	s.Require().NoError(err)
	_, err = s.app.TruthOrDare.SetPlayerCount(s.ctx, session.ID, 2)
	s.Require().NoError(err)
	_, err = s.app.TruthOrDare.AddPlayer(s.ctx, session.ID, "Alice", &alice.ID)
	s.Require().NoError(err)
	session, err = s.app.TruthOrDare.AddPlayer(s.ctx, session.ID, "Bob", nil)
	s.Require().NoError(err)
	s.Equal(model.SessionStateAwaitingChoice, session.State)

	// Step 2: Alice completes a truth shown in English
	session, err = s.app.TruthOrDare.RequestChallenge(s.ctx, session.ID, model.ChallengeTruth, model.LocaleEN)
	s.Require().NoError(err)
	s.Equal("truth normal (en)", session.Challenge.Content)

	result, err := s.app.TruthOrDare.ResolveChallenge(s.ctx, session.ID, model.OutcomeCompleted, identity)
	s.Require().NoError(err)
	s.Require().NotNil(result.Entry)
	s.Equal(5, result.Entry.Points)

	// Step 3: Bob skips a dare; unlinked, nothing recorded
	_, err = s.app.TruthOrDare.RequestChallenge(s.ctx, session.ID, model.ChallengeDare, model.LocaleDE)
	s.Require().NoError(err)
	result, err = s.app.TruthOrDare.ResolveChallenge(s.ctx, session.ID, model.OutcomeSkipped, identity)
	s.Require().NoError(err)
	s.Nil(result.Entry)

	// Step 4: Alice skips and loses the full penalty
	_, err = s.app.TruthOrDare.RequestChallenge(s.ctx, session.ID, model.ChallengeDare, model.LocaleDE)
	s.Require().NoError(err)
	result, err = s.app.TruthOrDare.ResolveChallenge(s.ctx, session.ID, model.OutcomeSkipped, identity)
	s.Require().NoError(err)
	s.Equal(-3, result.Resolution.Delta)
	s.Equal(2, result.Resolution.Player.Score)

	// Step 5: Verify ledger aggregates
	total, err := s.app.LedgerService.TotalForUser(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(2, total)

	board, err := s.app.LedgerService.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal(alice.ID, *board[0].UserID)
	s.Equal(2, board[0].Points)
}

// Test: A deactivated question is never drawn again
func (s *IntegrationSuite) TestDeactivatedQuestionEmptiesPool() {
	kids, err := s.app.QuestionService.ListEligible(s.ctx, model.ChallengeTruth, model.ModeKids)
	s.Require().NoError(err)
	s.Require().Len(kids, 1)
	s.Require().NoError(s.app.QuestionService.Deactivate(s.ctx, kids[0].ID))

	session, err := s.app.TruthOrDare.CreateSession(s.ctx)
	s.Require().NoError(err)
	_, _ = s.app.TruthOrDare.SelectMode(s.ctx, session.ID, model.ModeKids)
	_, _ = s.app.TruthOrDare.SetPlayerCount(s.ctx, session.ID, 1)
	_, _ = s.app.TruthOrDare.AddPlayer(s.ctx, session.ID, "Mia", nil)

	_, err = s.app.TruthOrDare.RequestChallenge(s.ctx, session.ID, model.ChallengeTruth, model.LocaleDE)
	s.ErrorIs(err, model.ErrEmptyQuestionPool)

	session, err = s.app.TruthOrDare.RequestChallenge(s.ctx, session.ID, model.ChallengeDare, model.LocaleDE)
	s.Require().NoError(err)
	s.Equal(model.SessionStateChallengeShown, session.State)
}

// Test: New question shows up in a mode that was empty before
func (s *IntegrationSuite) TestCreatedQuestionIsEligible() {
	en := "Sing a song"
	_, err := s.app.QuestionService.Create(s.ctx, questions.NewQuestion{
		Type:      model.ChallengeDare,
		Mode:      model.ModeSpicy,
		Content:   "Sing ein Lied",
		ContentEN: &en,
	})
	s.Require().NoError(err)

	pool, err := s.app.QuestionService.ListEligible(s.ctx, model.ChallengeDare, model.ModeSpicy)
	s.Require().NoError(err)
	s.Len(pool, 2)
}

type RedisIntegrationSuite struct {
	suite.Suite
	mr  *miniredis.Miniredis
	app *App
	ctx context.Context
}

func TestRedisIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RedisIntegrationSuite))
}

func (s *RedisIntegrationSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: s.mr.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })

	s.app = NewWithRedisClient(client, redisstorage.DefaultConfig(), Config{})
	s.ctx = context.Background()

	_, err := s.app.QuestionService.Create(s.ctx, questions.NewQuestion{
		Type: model.ChallengeTruth, Mode: model.ModeKids, Content: "Was ist dein Lieblingsessen?",
	})
	s.Require().NoError(err)
}

// Test: Sessions survive in Redis between calls and are removed on delete
func (s *RedisIntegrationSuite) TestSessionLifecycle() {
	session, err := s.app.TruthOrDare.CreateSession(s.ctx)
	s.Require().NoError(err)
	s.True(s.mr.Exists("party:tod:session:" + string(session.ID)))

	_, err = s.app.TruthOrDare.SelectMode(s.ctx, session.ID, model.ModeKids)
	s.Require().NoError(err)
	_, err = s.app.TruthOrDare.SetPlayerCount(s.ctx, session.ID, 1)
	s.Require().NoError(err)
	_, err = s.app.TruthOrDare.AddPlayer(s.ctx, session.ID, "Mia", nil)
	s.Require().NoError(err)

	session, err = s.app.TruthOrDare.RequestChallenge(s.ctx, session.ID, model.ChallengeTruth, model.LocaleEN)
	s.Require().NoError(err)
	s.Equal("Was ist dein Lieblingsessen?", session.Challenge.Content)

	loaded, err := s.app.TruthOrDare.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStateChallengeShown, loaded.State)

	s.Require().NoError(s.app.TruthOrDare.DeleteSession(s.ctx, session.ID))
	s.False(s.mr.Exists("party:tod:session:" + string(session.ID)))
}

// Test: Admin writes through the cache invalidate cached pools
func (s *RedisIntegrationSuite) TestQuestionCacheInvalidatedByCreate() {
	pool, err := s.app.QuestionService.ListEligible(s.ctx, model.ChallengeTruth, model.ModeKids)
	s.Require().NoError(err)
	s.Len(pool, 1)

	_, err = s.app.QuestionService.Create(s.ctx, questions.NewQuestion{
		Type: model.ChallengeTruth, Mode: model.ModeKids, Content: "Wer ist dein bester Freund?",
	})
	s.Require().NoError(err)

	pool, err = s.app.QuestionService.ListEligible(s.ctx, model.ChallengeTruth, model.ModeKids)
	s.Require().NoError(err)
	s.Len(pool, 2)
}
