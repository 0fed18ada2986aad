package truthordare

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/partygames/internal/dependencies/clock"
	"github.com/mcoot/partygames/internal/dependencies/random"
	"github.com/mcoot/partygames/internal/metrics"
	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/ledger"
	"github.com/mcoot/partygames/internal/storage"
)

// NoticeScoreNotSaved is returned to the client when the turn advanced but
// the score entry could not be recorded
const NoticeScoreNotSaved = "score could not be saved; the game continues"

// QuestionPool is the read side of the question bank
type QuestionPool interface {
	ListEligible(ctx context.Context, t model.ChallengeType, m model.Mode) ([]*model.Question, error)
}

// ScoreRecorder appends entries to the score ledger
type ScoreRecorder interface {
	Append(ctx context.Context, e ledger.Entry) (*model.ScoreEntry, error)
}

// Watcher is told about every saved session change
type Watcher interface {
	SessionUpdated(session *model.Session)
	SessionEnded(id model.SessionID)
}

type nopWatcher struct{}

func (nopWatcher) SessionUpdated(*model.Session) {}
func (nopWatcher) SessionEnded(model.SessionID) {}

// Controller drives the truth-or-dare session state machine
type Controller struct {
	sessions  storage.SessionStore
	questions QuestionPool
	scores    ScoreRecorder
	clock     clock.Clock
	random    random.Random
	metrics   *metrics.Metrics
	logger    *slog.Logger
	watcher   Watcher

	locks *sessionLocks
}

// NewController creates a new truth-or-dare Controller
func NewController(
	sessions storage.SessionStore,
	questions QuestionPool,
	scores ScoreRecorder,
	clock clock.Clock,
	random random.Random,
	metrics *metrics.Metrics,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		sessions:  sessions,
		questions: questions,
		scores:    scores,
		clock:     clock,
		random:    random,
		metrics:   metrics,
		logger:    logger,
		watcher:   nopWatcher{},
		locks:     newSessionLocks(),
	}
}

// SetWatcher registers w to observe session changes
func (c *Controller) SetWatcher(w Watcher) {
	c.watcher = w
}

// CreateSession starts a session waiting for a mode
func (c *Controller) CreateSession(ctx context.Context) (*model.Session, error) {
	session := model.NewSession(model.SessionID(c.random.NewID()), c.clock.Now())

	if err := c.sessions.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.metrics.SessionsCreated.Inc()
	c.logger.Info("session created", slog.String("session_id", string(session.ID)))
	return session, nil
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.sessions.GetSession(ctx, id)
}

// DeleteSession discards a session
func (c *Controller) DeleteSession(ctx context.Context, id model.SessionID) error {
	unlock := c.locks.lock(id)
	defer unlock()

	if _, err := c.sessions.GetSession(ctx, id); err != nil {
		return err
	}
	if err := c.sessions.DeleteSession(ctx, id); err != nil {
		return err
	}
	c.watcher.SessionEnded(id)
	c.logger.Info("session ended", slog.String("session_id", string(id)))
	return nil
}

// SelectMode chooses the content tier
func (c *Controller) SelectMode(ctx context.Context, id model.SessionID, mode model.Mode) (*model.Session, error) {
	return c.mutate(ctx, id, func(s *model.Session) error {
		return s.SelectMode(mode)
	})
}

// SetPlayerCount sets the roster size, clearing any roster already entered
func (c *Controller) SetPlayerCount(ctx context.Context, id model.SessionID, n int) (*model.Session, error) {
	return c.mutate(ctx, id, func(s *model.Session) error {
		return s.SetPlayerCount(n)
	})
}

// AddPlayer appends a player, optionally linked to a registered user
func (c *Controller) AddPlayer(ctx context.Context, id model.SessionID, name string, link *model.UserID) (*model.Session, error) {
	session, err := c.mutate(ctx, id, func(s *model.Session) error {
		return s.AddPlayer(name, link)
	})
	if err != nil {
		return nil, err
	}
	if session.State == model.SessionStateAwaitingChoice {
		c.logger.Info("roster complete",
			slog.String("session_id", string(id)),
			slog.Int("player_count", len(session.Players)),
			slog.String("mode", string(session.Mode)),
		)
	}
	return session, nil
}

// RequestChallenge draws a question of type t for the current player. An
// empty pool returns model.ErrEmptyQuestionPool and leaves the session as it was.
func (c *Controller) RequestChallenge(ctx context.Context, id model.SessionID, t model.ChallengeType, locale model.Locale) (*model.Session, error) {
	if !t.IsValid() {
		return nil, model.ErrInvalidChallengeType
	}

	return c.mutate(ctx, id, func(s *model.Session) error {
		if s.State != model.SessionStateAwaitingChoice {
			return model.ErrInvalidTransition
		}

		pool, err := c.questions.ListEligible(ctx, t, s.Mode)
		if err != nil {
			return err
		}
		if len(pool) == 0 {
			c.metrics.EmptyPools.WithLabelValues(string(t), string(s.Mode)).Inc()
			return model.ErrEmptyQuestionPool
		}

		q := pool[c.random.Intn(len(pool))]
		if err := s.ShowChallenge(q, locale); err != nil {
			return err
		}
		c.metrics.ChallengesShown.WithLabelValues(string(t), string(s.Mode)).Inc()
		return nil
	})
}

// ResolveResult is the outcome of ResolveChallenge
type ResolveResult struct {
	Session    *model.Session
	Resolution model.Resolution
	// Entry is the recorded ledger entry, nil when nothing was persisted
	Entry *model.ScoreEntry
	// Notice is set when the entry should have been recorded but was not
	Notice string
}

// ResolveChallenge applies the outcome for the current player and passes the
// turn on. A linked player's applied delta is appended to the ledger,
// unlinked when identity reports nobody. Ledger failures do not undo the
// turn; they surface as a notice.
func (c *Controller) ResolveChallenge(ctx context.Context, id model.SessionID, outcome model.Outcome, identity Identity) (*ResolveResult, error) {
	if _, err := model.ParseOutcome(string(outcome)); err != nil {
		return nil, err
	}

	var resolution model.Resolution
	session, err := c.mutate(ctx, id, func(s *model.Session) error {
		res, err := s.Resolve(outcome)
		if err != nil {
			return err
		}
		resolution = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.metrics.ChallengesResolved.WithLabelValues(string(outcome)).Inc()
	result := &ResolveResult{Session: session, Resolution: resolution}

	entry, ok := scoreEntryFor(resolution, identity)
	if !ok {
		return result, nil
	}

	recorded, err := c.scores.Append(ctx, entry)
	if err != nil {
		c.metrics.LedgerWriteFailures.Inc()
		c.logger.Error("failed to record score",
			slog.String("session_id", string(id)),
			slog.String("player", resolution.Player.Name),
			slog.Int("delta", resolution.Delta),
			slog.String("error", err.Error()),
		)
		result.Notice = NoticeScoreNotSaved
		return result, nil
	}
	result.Entry = recorded
	return result, nil
}

// scoreEntryFor decides what, if anything, a resolution writes to the ledger
func scoreEntryFor(res model.Resolution, identity Identity) (ledger.Entry, bool) {
	if res.Player.UserID == nil || res.Delta == 0 {
		return ledger.Entry{}, false
	}

	entry := ledger.Entry{
		PlayerName: res.Player.Name,
		Points:     res.Delta,
		GameType:   model.GameTypeTruthOrDare,
	}
	if identity != nil {
		if _, ok := identity.CurrentUser(); ok {
			userID := *res.Player.UserID
			entry.UserID = &userID
		}
	}
	return entry, true
}

// mutate loads a session under its lock, applies fn and saves the result.
// Nothing is saved when fn fails.
func (c *Controller) mutate(ctx context.Context, id model.SessionID, fn func(*model.Session) error) (*model.Session, error) {
	unlock := c.locks.lock(id)
	defer unlock()

	session, err := c.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		if !isDomainError(err) {
			c.logger.Error("session operation failed",
				slog.String("session_id", string(id)),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	session.UpdatedAt = c.clock.Now()
	if err := c.sessions.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	c.watcher.SessionUpdated(session)
	return session, nil
}

var domainErrors = []error{
	model.ErrInvalidTransition,
	model.ErrInvalidMode,
	model.ErrInvalidChallengeType,
	model.ErrInvalidPlayerCount,
	model.ErrBlankPlayerName,
	model.ErrDuplicatePlayerName,
	model.ErrRosterFull,
	model.ErrInvalidOutcome,
	model.ErrEmptyQuestionPool,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
