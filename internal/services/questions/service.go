package questions

import (
	"context"
	"log/slog"

	"github.com/mcoot/partygames/internal/dependencies/clock"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// Service manages the question bank
type Service struct {
	store  storage.QuestionStore
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new question Service
func New(store storage.QuestionStore, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// ListEligible returns the active questions of a type and mode
func (s *Service) ListEligible(ctx context.Context, t model.ChallengeType, m model.Mode) ([]*model.Question, error) {
	if !t.IsValid() {
		return nil, model.ErrInvalidChallengeType
	}
	if !m.IsValid() {
		return nil, model.ErrInvalidMode
	}
	return s.store.ListEligibleQuestions(ctx, t, m)
}

// List returns every question matching filter, including inactive ones
func (s *Service) List(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, error) {
	return s.store.ListQuestions(ctx, filter)
}

// Get returns a single question
func (s *Service) Get(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// NewQuestion is the input to Create
type NewQuestion struct {
	Type      model.ChallengeType
	Mode      model.Mode
	Content   string
	ContentEN *string
	// Active defaults to true when nil
	Active *bool
}

func (n NewQuestion) build() *model.Question {
	active := true
	if n.Active != nil {
		active = *n.Active
	}
	return &model.Question{
		Type:      n.Type,
		Mode:      n.Mode,
		Content:   n.Content,
		ContentEN: n.ContentEN,
		Active:    active,
	}
}

// Create validates and stores a new question
func (s *Service) Create(ctx context.Context, n NewQuestion) (*model.Question, error) {
	q := n.build()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.CreatedAt = s.clock.Now()

	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return nil, err
	}
	s.logger.Info("question created",
		slog.Int64("question_id", int64(q.ID)),
		slog.String("type", string(q.Type)),
		slog.String("mode", string(q.Mode)),
	)
	return q, nil
}

// Update applies a partial update. The result must still be a valid question.
func (s *Service) Update(ctx context.Context, id model.QuestionID, update model.QuestionUpdate) (*model.Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(q)
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Deactivate soft-deletes a question so it is never drawn again.
// Deactivating an inactive question is a no-op.
func (s *Service) Deactivate(ctx context.Context, id model.QuestionID) error {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	if !q.Active {
		return nil
	}

	q.Active = false
	if err := s.store.UpdateQuestion(ctx, q); err != nil {
		return err
	}
	s.logger.Info("question deactivated", slog.Int64("question_id", int64(id)))
	return nil
}

// Count returns the size of the bank, inactive questions included
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.CountQuestions(ctx)
}
