package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	container tc.Container
	db        *bun.DB
	storage   *Storage
	ctx       context.Context
}

func TestStorageSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container tests in short mode")
	}
	requireDocker(t)
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tc.GenericContainer(s.ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			Env:          map[string]string{"POSTGRES_USER": "party", "POSTGRES_PASSWORD": "party", "POSTGRES_DB": "party"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432/tcp")
	s.Require().NoError(err)

	cfg := DefaultConfig()
	cfg.URL = fmt.Sprintf("postgres://party:party@%s:%s/party?sslmode=disable", host, port.Port())

	s.db, err = Open(s.ctx, cfg)
	s.Require().NoError(err)
	s.Require().NoError(Migrate(s.ctx, s.db, testutil.NopLogger()))

	s.storage = New(s.db)
}

func (s *StorageSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *StorageSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, `TRUNCATE score_entries, questions, users RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *StorageSuite) TestMigrateIsIdempotent() {
	s.NoError(Migrate(s.ctx, s.db, testutil.NopLogger()))
}

func (s *StorageSuite) TestCreateAndGetQuestion() {
	en := "Dance for a minute"
	q := &model.Question{Type: model.ChallengeDare, Mode: model.ModeNormal, Content: "Tanze eine Minute", ContentEN: &en, Active: true}

	s.Require().NoError(s.storage.CreateQuestion(s.ctx, q))
	s.NotZero(q.ID)
	s.False(q.CreatedAt.IsZero())

	retrieved, err := s.storage.GetQuestion(s.ctx, q.ID)
	s.Require().NoError(err)
	s.Equal(q.Content, retrieved.Content)
	s.Require().NotNil(retrieved.ContentEN)
	s.Equal(en, *retrieved.ContentEN)
}

func (s *StorageSuite) TestGetQuestionNotFound() {
	_, err := s.storage.GetQuestion(s.ctx, 12345)
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

func (s *StorageSuite) TestUpdateQuestion() {
	q := &model.Question{Type: model.ChallengeTruth, Mode: model.ModeKids, Content: "A", Active: true}
	s.Require().NoError(s.storage.CreateQuestion(s.ctx, q))

	q.Active = false
	s.Require().NoError(s.storage.UpdateQuestion(s.ctx, q))

	retrieved, err := s.storage.GetQuestion(s.ctx, q.ID)
	s.Require().NoError(err)
	s.False(retrieved.Active)

	err = s.storage.UpdateQuestion(s.ctx, &model.Question{ID: 999, Type: model.ChallengeTruth, Mode: model.ModeKids})
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

func (s *StorageSuite) TestListEligibleQuestions() {
	for _, q := range []*model.Question{
		{Type: model.ChallengeTruth, Mode: model.ModeSpicy, Content: "match", Active: true},
		{Type: model.ChallengeTruth, Mode: model.ModeSpicy, Content: "inactive", Active: false},
		{Type: model.ChallengeDare, Mode: model.ModeSpicy, Content: "other type", Active: true},
	} {
		s.Require().NoError(s.storage.CreateQuestion(s.ctx, q))
	}

	eligible, err := s.storage.ListEligibleQuestions(s.ctx, model.ChallengeTruth, model.ModeSpicy)
	s.Require().NoError(err)
	s.Require().Len(eligible, 1)
	s.Equal("match", eligible[0].Content)

	inactive := false
	listed, err := s.storage.ListQuestions(s.ctx, model.QuestionFilter{Active: &inactive})
	s.Require().NoError(err)
	s.Len(listed, 1)

	count, err := s.storage.CountQuestions(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *StorageSuite) TestLeaderboard() {
	user := &model.User{Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	entries := []*model.ScoreEntry{
		{PlayerName: "Bob", Points: 10, GameType: model.GameTypeTruthOrDare},
		{UserID: &user.ID, PlayerName: "Alice", Points: 5, GameType: model.GameTypeTruthOrDare},
		{PlayerName: "Carol", Points: 20, GameType: model.GameTypeTruthOrDare},
		{UserID: &user.ID, PlayerName: "Ali", Points: 5, GameType: model.GameTypeTruthOrDare},
		{PlayerName: "Dave", Points: 5, GameType: model.GameTypeTruthOrDare},
	}
	for _, e := range entries {
		s.Require().NoError(s.storage.AppendScore(s.ctx, e))
		s.NotZero(e.ID)
	}

	board, err := s.storage.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(board, 4)
	s.Equal("Carol", board[0].PlayerName)
	// Bob and Alice tie at 10; Bob's first entry is earlier
	s.Equal("Bob", board[1].PlayerName)
	s.Equal("Alice", board[2].PlayerName)
	s.Require().NotNil(board[2].UserID)
	s.Equal(user.ID, *board[2].UserID)
	s.Equal(10, board[2].Points)
	s.Equal("Dave", board[3].PlayerName)

	top, err := s.storage.Leaderboard(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(top, 2)

	total, err := s.storage.TotalForUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(10, total)

	total, err = s.storage.TotalForUser(s.ctx, 999)
	s.Require().NoError(err)
	s.Equal(0, total)
}

func (s *StorageSuite) TestUsers() {
	bio := "hi"
	user := &model.User{Username: "alice", PasswordHash: "hash", Email: "a@example.com", Bio: &bio}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))
	s.NotZero(user.ID)

	err := s.storage.CreateUser(s.ctx, &model.User{Username: "alice", PasswordHash: "other"})
	s.ErrorIs(err, model.ErrUsernameExists)

	byName, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(user.ID, byName.ID)
	s.Require().NotNil(byName.Bio)
	s.Equal("hi", *byName.Bio)

	byName.Email = "new@example.com"
	byName.UpdatedAt = time.Now()
	s.Require().NoError(s.storage.UpdateUser(s.ctx, byName))

	byID, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("new@example.com", byID.Email)

	_, err = s.storage.GetUser(s.ctx, 999)
	s.ErrorIs(err, model.ErrUserNotFound)
}

func requireDocker(t *testing.T) {
	t.Helper()
	provider, err := tc.NewDockerProvider()
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	defer provider.Close()
	if err := provider.Health(context.Background()); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
