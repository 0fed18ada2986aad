package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/partygames/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.User:
		o.printUser(v)
	case response.AuthResponse:
		o.printUser(v.User)
		fmt.Fprintf(o.w, "Token: %s\n", v.Token)
	case response.Question:
		o.printQuestions([]response.Question{v})
	case []response.Question:
		o.printQuestions(v)
	case response.ImportResult:
		fmt.Fprintf(o.w, "Imported %d questions\n", v.Imported)
	case response.ScoreEntry:
		o.printScoreEntry(v)
	case []response.LeaderboardEntry:
		o.printLeaderboard(v)
	case response.UserTotal:
		fmt.Fprintf(o.w, "Total: %d points\n", v.Total)
	case response.Session:
		o.printSession(v)
	case response.ResolveResponse:
		o.printResolve(v)
	case response.DiceRoll:
		fmt.Fprintf(o.w, "Rolled %d: %s\n", v.Value, v.Rule)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printUser(u response.User) {
	fmt.Fprintf(o.w, "User: %s (%d)\n", u.Username, u.ID)
	fmt.Fprintf(o.w, "Email: %s\n", u.Email)
	if u.Bio != nil {
		fmt.Fprintf(o.w, "Bio: %s\n", *u.Bio)
	}
	if u.ProfileImage != nil {
		fmt.Fprintf(o.w, "Profile image: %s\n", *u.ProfileImage)
	}
}

func (o *Output) printQuestions(qs []response.Question) {
	if len(qs) == 0 {
		fmt.Fprintln(o.w, "No questions")
		return
	}
	for _, q := range qs {
		status := ""
		if !q.Active {
			status = " [inactive]"
		}
		fmt.Fprintf(o.w, "#%d %s/%s%s: %s\n", q.ID, q.Type, q.Mode, status, q.Content)
		if q.ContentEN != nil {
			fmt.Fprintf(o.w, "    en: %s\n", *q.ContentEN)
		}
	}
}

func (o *Output) printScoreEntry(e response.ScoreEntry) {
	linked := ""
	if e.UserID != nil {
		linked = fmt.Sprintf(" (user %d)", *e.UserID)
	}
	fmt.Fprintf(o.w, "Recorded %+d for %s%s [%s]\n", e.Points, e.PlayerName, linked, e.GameType)
}

func (o *Output) printLeaderboard(board []response.LeaderboardEntry) {
	if len(board) == 0 {
		fmt.Fprintln(o.w, "No scores yet")
		return
	}
	for _, e := range board {
		fmt.Fprintf(o.w, "%3d. %-20s %d\n", e.Rank, e.PlayerName, e.Points)
	}
}

func (o *Output) printSession(s response.Session) {
	fmt.Fprintf(o.w, "Session: %s\n", s.ID)
	fmt.Fprintf(o.w, "State: %s\n", s.State)
	if s.Mode != nil {
		fmt.Fprintf(o.w, "Mode: %s\n", *s.Mode)
	}
	if s.TargetCount > 0 {
		fmt.Fprintf(o.w, "Players (%d/%d):\n", len(s.Players), s.TargetCount)
		for _, p := range s.Players {
			marker := "  "
			if s.CurrentPlayer != nil && *s.CurrentPlayer == p.Name {
				marker = "> "
			}
			fmt.Fprintf(o.w, "  %s%s: %d\n", marker, p.Name, p.Score)
		}
	}
	if s.Challenge != nil {
		fmt.Fprintf(o.w, "%s: %s\n", strings.ToUpper(s.Challenge.Type), s.Challenge.Content)
	}
}

func (o *Output) printResolve(r response.ResolveResponse) {
	fmt.Fprintf(o.w, "%s %s: %+d (now %d)\n", r.Player.Name, r.Outcome, r.Delta, r.Player.Score)
	if r.Notice != "" {
		fmt.Fprintf(o.w, "Notice: %s\n", r.Notice)
	}
	if r.Session.CurrentPlayer != nil {
		fmt.Fprintf(o.w, "Next: %s\n", *r.Session.CurrentPlayer)
	}
}
