package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/mcoot/partygames/internal/model"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Type      string    `bun:"type,notnull"`
	Mode      string    `bun:"mode,notnull"`
	Content   string    `bun:"content,notnull"`
	ContentEN *string   `bun:"content_en"`
	Active    bool      `bun:"active,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func newQuestionRow(q *model.Question) *questionRow {
	return &questionRow{
		ID:        int64(q.ID),
		Type:      string(q.Type),
		Mode:      string(q.Mode),
		Content:   q.Content,
		ContentEN: q.ContentEN,
		Active:    q.Active,
		CreatedAt: q.CreatedAt,
	}
}

func (r *questionRow) toModel() *model.Question {
	return &model.Question{
		ID:        model.QuestionID(r.ID),
		Type:      model.ChallengeType(r.Type),
		Mode:      model.Mode(r.Mode),
		Content:   r.Content,
		ContentEN: r.ContentEN,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
}

type scoreRow struct {
	bun.BaseModel `bun:"table:score_entries,alias:s"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     *int64    `bun:"user_id"`
	PlayerName string    `bun:"player_name,notnull"`
	Points     int       `bun:"points,notnull"`
	GameType   string    `bun:"game_type,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func newScoreRow(e *model.ScoreEntry) *scoreRow {
	row := &scoreRow{
		ID:         int64(e.ID),
		PlayerName: e.PlayerName,
		Points:     e.Points,
		GameType:   e.GameType,
		CreatedAt:  e.CreatedAt,
	}
	if e.UserID != nil {
		id := int64(*e.UserID)
		row.UserID = &id
	}
	return row
}

// leaderboardRow is the shape of one aggregated leaderboard group
type leaderboardRow struct {
	UserID     *int64 `bun:"user_id"`
	PlayerName string `bun:"player_name"`
	Points     int    `bun:"points"`
}

func (r *leaderboardRow) toModel() model.LeaderboardEntry {
	entry := model.LeaderboardEntry{PlayerName: r.PlayerName, Points: r.Points}
	if r.UserID != nil {
		id := model.UserID(*r.UserID)
		entry.UserID = &id
	}
	return entry
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Email        string    `bun:"email,notnull"`
	Bio          *string   `bun:"bio"`
	ProfileImage *string   `bun:"profile_image"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newUserRow(u *model.User) *userRow {
	return &userRow{
		ID:           int64(u.ID),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Email:        u.Email,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *userRow) toModel() *model.User {
	return &model.User{
		ID:           model.UserID(r.ID),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Email:        r.Email,
		Bio:          r.Bio,
		ProfileImage: r.ProfileImage,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
