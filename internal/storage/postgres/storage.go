package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/storage"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// leaderboardQuery groups linked entries by user and unlinked entries by
// player name. Groups tie-break on their earliest entry.
const leaderboardQuery = `
SELECT user_id, player_name, points FROM (
	SELECT
		user_id,
		(array_agg(player_name ORDER BY id))[1] AS player_name,
		SUM(points)::bigint AS points,
		MIN(id) AS first_id
	FROM score_entries
	GROUP BY user_id, CASE WHEN user_id IS NULL THEN player_name END
) AS g
ORDER BY points DESC, first_id ASC
LIMIT ?`

// Storage is a Postgres-backed store for questions, scores and users.
// Sessions are ephemeral and live in the session store instead.
type Storage struct {
	db *bun.DB
}

// New creates a Postgres storage on an open database
func New(db *bun.DB) *Storage {
	return &Storage{db: db}
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interfaces
var (
	_ storage.QuestionStore = (*Storage)(nil)
	_ storage.ScoreLedger   = (*Storage)(nil)
	_ storage.UserStore     = (*Storage)(nil)
)

// Question operations

func (s *Storage) CreateQuestion(ctx context.Context, q *model.Question) error {
	row := newQuestionRow(q)
	if _, err := s.db.NewInsert().Model(row).Returning("id, created_at").Exec(ctx); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	q.ID = model.QuestionID(row.ID)
	q.CreatedAt = row.CreatedAt
	return nil
}

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	row := new(questionRow)
	err := s.db.NewSelect().Model(row).Where("q.id = ?", int64(id)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrQuestionNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) UpdateQuestion(ctx context.Context, q *model.Question) error {
	res, err := s.db.NewUpdate().
		Model(newQuestionRow(q)).
		Column("type", "mode", "content", "content_en", "active").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return requireAffected(res, model.ErrQuestionNotFound)
}

func (s *Storage) ListQuestions(ctx context.Context, filter model.QuestionFilter) ([]*model.Question, error) {
	var rows []questionRow
	query := s.db.NewSelect().Model(&rows).OrderExpr("q.id ASC")
	if filter.Type != "" {
		query = query.Where("q.type = ?", string(filter.Type))
	}
	if filter.Mode != "" {
		query = query.Where("q.mode = ?", string(filter.Mode))
	}
	if filter.Active != nil {
		query = query.Where("q.active = ?", *filter.Active)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return questionsFromRows(rows), nil
}

func (s *Storage) ListEligibleQuestions(ctx context.Context, t model.ChallengeType, m model.Mode) ([]*model.Question, error) {
	var rows []questionRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("q.type = ?", string(t)).
		Where("q.mode = ?", string(m)).
		Where("q.active").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return questionsFromRows(rows), nil
}

func (s *Storage) CountQuestions(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*questionRow)(nil)).Count(ctx)
}

func questionsFromRows(rows []questionRow) []*model.Question {
	questions := make([]*model.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, rows[i].toModel())
	}
	return questions
}

// Score ledger operations

func (s *Storage) AppendScore(ctx context.Context, entry *model.ScoreEntry) error {
	row := newScoreRow(entry)
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("append score: %w", err)
	}
	entry.ID = model.ScoreEntryID(row.ID)
	return nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	// A NULL limit means no limit
	var lim interface{}
	if limit > 0 {
		lim = limit
	}

	var rows []leaderboardRow
	if err := s.db.NewRaw(leaderboardQuery, lim).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toModel())
	}
	return entries, nil
}

func (s *Storage) TotalForUser(ctx context.Context, userID model.UserID) (int, error) {
	var total int
	err := s.db.NewSelect().
		Model((*scoreRow)(nil)).
		ColumnExpr("COALESCE(SUM(s.points), 0)").
		Where("s.user_id = ?", int64(userID)).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	row := newUserRow(user)
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = model.UserID(row.ID)
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.getUser(ctx, "u.id = ?", int64(id))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.getUser(ctx, "u.username = ?", username)
}

func (s *Storage) getUser(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	row := new(userRow)
	if err := s.db.NewSelect().Model(row).Where(where, arg).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	res, err := s.db.NewUpdate().
		Model(newUserRow(user)).
		Column("email", "bio", "profile_image", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res, model.ErrUserNotFound)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
