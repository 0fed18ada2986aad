package response

import (
	"time"

	"github.com/mcoot/partygames/internal/model"
	"github.com/mcoot/partygames/internal/services/dice"
	"github.com/mcoot/partygames/internal/services/truthordare"
)

// User represents a registered user in API responses
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Bio          *string   `json:"bio"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserFromModel converts a model.User, omitting the password hash
func UserFromModel(u *model.User) User {
	return User{
		ID:           int64(u.ID),
		Username:     u.Username,
		Email:        u.Email,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// AuthResponse is the response for register and login
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Question represents a question in API responses
type Question struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Mode      string    `json:"mode"`
	Content   string    `json:"content"`
	ContentEN *string   `json:"contentEn"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuestionFromModel converts a model.Question
func QuestionFromModel(q *model.Question) Question {
	return Question{
		ID:        int64(q.ID),
		Type:      string(q.Type),
		Mode:      string(q.Mode),
		Content:   q.Content,
		ContentEN: q.ContentEN,
		Active:    q.Active,
		CreatedAt: q.CreatedAt,
	}
}

// QuestionsFromModel converts a slice of questions, never returning nil
func QuestionsFromModel(qs []*model.Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = QuestionFromModel(q)
	}
	return out
}

// ImportResult reports how many questions a file import created
type ImportResult struct {
	Imported int `json:"imported"`
}

// ScoreEntry represents a ledger entry
type ScoreEntry struct {
	ID         int64     `json:"id"`
	UserID     *int64    `json:"userId"`
	PlayerName string    `json:"playerName"`
	Points     int       `json:"points"`
	GameType   string    `json:"gameType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ScoreEntryFromModel converts a model.ScoreEntry
func ScoreEntryFromModel(e *model.ScoreEntry) ScoreEntry {
	return ScoreEntry{
		ID:         int64(e.ID),
		UserID:     userIDPtr(e.UserID),
		PlayerName: e.PlayerName,
		Points:     e.Points,
		GameType:   e.GameType,
		CreatedAt:  e.CreatedAt,
	}
}

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     *int64 `json:"userId"`
	PlayerName string `json:"playerName"`
	Points     int    `json:"points"`
}

// LeaderboardFromModel ranks groups in the order given, starting at 1
func LeaderboardFromModel(entries []model.LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Rank:       i + 1,
			UserID:     userIDPtr(e.UserID),
			PlayerName: e.PlayerName,
			Points:     e.Points,
		}
	}
	return out
}

// UserTotal is the summed score of one user
type UserTotal struct {
	UserID int64 `json:"userId"`
	Total  int   `json:"total"`
}

// Player represents a session player
type Player struct {
	Name   string `json:"name"`
	UserID *int64 `json:"userId"`
	Score  int    `json:"score"`
}

// PlayerFromModel converts a model.Player
func PlayerFromModel(p model.Player) Player {
	return Player{Name: p.Name, UserID: userIDPtr(p.UserID), Score: p.Score}
}

// Challenge is the prompt currently shown
type Challenge struct {
	QuestionID int64  `json:"questionId"`
	Type       string `json:"type"`
	Content    string `json:"content"`
	Locale     string `json:"locale"`
}

// Session represents a truth-or-dare session
type Session struct {
	ID            string     `json:"id"`
	State         string     `json:"state"`
	Mode          *string    `json:"mode"`
	TargetCount   int        `json:"targetCount"`
	Players       []Player   `json:"players"`
	Turn          int        `json:"turn"`
	CurrentPlayer *string    `json:"currentPlayer"`
	Challenge     *Challenge `json:"challenge"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// SessionFromModel converts a model.Session
func SessionFromModel(s *model.Session) Session {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerFromModel(p)
	}

	var mode *string
	if s.Mode != "" {
		m := string(s.Mode)
		mode = &m
	}

	var current *string
	if p := s.CurrentPlayer(); p != nil {
		name := p.Name
		current = &name
	}

	var challenge *Challenge
	if s.Challenge != nil {
		challenge = &Challenge{
			QuestionID: int64(s.Challenge.QuestionID),
			Type:       string(s.Challenge.Type),
			Content:    s.Challenge.Content,
			Locale:     string(s.Challenge.Locale),
		}
	}

	return Session{
		ID:            string(s.ID),
		State:         string(s.State),
		Mode:          mode,
		TargetCount:   s.TargetCount,
		Players:       players,
		Turn:          s.Turn,
		CurrentPlayer: current,
		Challenge:     challenge,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ResolveResponse is the response after resolving a challenge
type ResolveResponse struct {
	Session  Session `json:"session"`
	Player   Player  `json:"player"`
	Outcome  string  `json:"outcome"`
	Delta    int     `json:"delta"`
	Recorded bool    `json:"recorded"`
	Notice   string  `json:"notice,omitempty"`
}

// ResolveResponseFromResult converts a truthordare.ResolveResult
func ResolveResponseFromResult(r *truthordare.ResolveResult) ResolveResponse {
	return ResolveResponse{
		Session:  SessionFromModel(r.Session),
		Player:   PlayerFromModel(r.Resolution.Player),
		Outcome:  string(r.Resolution.Outcome),
		Delta:    r.Resolution.Delta,
		Recorded: r.Entry != nil,
		Notice:   r.Notice,
	}
}

// DiceRoll is the response of a dice roll
type DiceRoll struct {
	Value int    `json:"value"`
	Rule  string `json:"rule"`
}

// DiceRollFromService converts a dice.Roll
func DiceRollFromService(r dice.Roll) DiceRoll {
	return DiceRoll{Value: r.Value, Rule: r.Rule}
}

// Health is the response of the health endpoint
type Health struct {
	Status string `json:"status"`
}

func userIDPtr(id *model.UserID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}
