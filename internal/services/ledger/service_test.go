package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partygames/internal/dependencies/mocks"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage/memory"
	"github.com/mcoot/partygames/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(memory.New(), s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestAppendStampsAndTrims() {
	entry, err := s.service.Append(s.ctx, Entry{PlayerName: "  Alice ", Points: 5, GameType: model.GameTypeTruthOrDare})
	s.Require().NoError(err)

	s.NotZero(entry.ID)
	s.Equal("Alice", entry.PlayerName)
	s.Equal(s.clock.Now(), entry.CreatedAt)
}

func (s *ServiceSuite) TestAppendRejectsInvalidEntries() {
	_, err := s.service.Append(s.ctx, Entry{PlayerName: " ", Points: 5, GameType: "dice"})
	s.ErrorIs(err, model.ErrInvalidScoreEntry)

	_, err = s.service.Append(s.ctx, Entry{PlayerName: "Alice", Points: 5})
	s.ErrorIs(err, model.ErrInvalidScoreEntry)
}

func (s *ServiceSuite) TestNegativePointsAreAccepted() {
	_, err := s.service.Append(s.ctx, Entry{PlayerName: "Alice", Points: -3, GameType: model.GameTypeTruthOrDare})
	s.NoError(err)
}

func (s *ServiceSuite) TestLeaderboardOrdering() {
	for _, e := range []Entry{
		{PlayerName: "A", Points: 10, GameType: "dice"},
		{PlayerName: "B", Points: 5, GameType: "dice"},
		{PlayerName: "C", Points: 20, GameType: "dice"},
	} {
		_, err := s.service.Append(s.ctx, e)
		s.Require().NoError(err)
	}

	board, err := s.service.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(board, 3)
	s.Equal(20, board[0].Points)
	s.Equal(10, board[1].Points)
	s.Equal(5, board[2].Points)
}

func (s *ServiceSuite) TestLeaderboardDefaultLimit() {
	for i := 0; i < 15; i++ {
		_, err := s.service.Append(s.ctx, Entry{PlayerName: fmt.Sprintf("P%d", i), Points: i, GameType: "dice"})
		s.Require().NoError(err)
	}

	board, err := s.service.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(board, DefaultLimit)
	s.Equal(14, board[0].Points)
}

func (s *ServiceSuite) TestTotalForUser() {
	id := model.UserID(1)
	_, _ = s.service.Append(s.ctx, Entry{UserID: &id, PlayerName: "Alice", Points: 5, GameType: model.GameTypeTruthOrDare})
	_, _ = s.service.Append(s.ctx, Entry{UserID: &id, PlayerName: "Alice", Points: -3, GameType: model.GameTypeTruthOrDare})

	total, err := s.service.TotalForUser(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(2, total)

	total, err = s.service.TotalForUser(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(0, total)
}

func (s *ServiceSuite) TestClampLimit() {
	s.Equal(DefaultLimit, ClampLimit(0))
	s.Equal(DefaultLimit, ClampLimit(-5))
	s.Equal(7, ClampLimit(7))
	s.Equal(MaxLimit, ClampLimit(1000))
}
