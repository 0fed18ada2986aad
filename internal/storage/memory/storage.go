package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	questions      map[model.QuestionID]*model.Question
	nextQuestionID model.QuestionID

	scores      []*model.ScoreEntry // append order
	nextScoreID model.ScoreEntryID

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	nextUserID    model.UserID

	sessions map[model.SessionID]*model.Session
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		questions:     make(map[model.QuestionID]*model.Question),
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		sessions:      make(map[model.SessionID]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Question operations

func (s *Storage) CreateQuestion(ctx context.Context, q *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextQuestionID++
	q.ID = s.nextQuestionID
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, model.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (s *Storage) UpdateQuestion(ctx context.Context, q *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return model.ErrQuestionNotFound
	}
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (s *Storage) ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []*model.Question{}
	for _, q := range s.questions {
		if filter.Matches(q) {
			result = append(result, cloneQuestion(q))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Storage) ListEligibleQuestions(ctx context.Context, t model.ChallengeType, m model.Mode) ([]*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []*model.Question{}
	for _, q := range s.questions {
		if q.IsEligible(t, m) {
			result = append(result, cloneQuestion(q))
		}
	}
	return result, nil
}

func (s *Storage) CountQuestions(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

// Score ledger operations

func (s *Storage) AppendScore(ctx context.Context, entry *model.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextScoreID++
	entry.ID = s.nextScoreID
	stored := *entry
	s.scores = append(s.scores, &stored)
	return nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Groups keep first-insertion order so the stable sort breaks ties by it
	index := make(map[string]int)
	groups := []model.LeaderboardEntry{}
	for _, e := range s.scores {
		key := model.LeaderboardKey(e)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.LeaderboardEntry{UserID: e.UserID, PlayerName: e.PlayerName})
		}
		groups[i].Points += e.Points
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Points > groups[j].Points
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups, nil
}

func (s *Storage) TotalForUser(ctx context.Context, userID model.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, e := range s.scores {
		if e.UserID != nil && *e.UserID == userID {
			total += e.Points
		}
	}
	return total, nil
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernameIndex[user.Username]; taken {
		return model.ErrUsernameExists
	}
	s.nextUserID++
	user.ID = s.nextUserID
	stored := *user
	s.users[user.ID] = &stored
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func cloneQuestion(q *model.Question) *model.Question {
	c := *q
	if q.ContentEN != nil {
		en := *q.ContentEN
		c.ContentEN = &en
	}
	return &c
}

func cloneSession(s *model.Session) *model.Session {
	c := *s
	c.Players = make([]model.Player, len(s.Players))
	copy(c.Players, s.Players)
	if s.Challenge != nil {
		ch := *s.Challenge
		c.Challenge = &ch
	}
	return &c
}
