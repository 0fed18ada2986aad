package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/partygames/internal/api/response"
)

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Score ledger commands",
	}

	cmd.AddCommand(newScoresListCmd())
	cmd.AddCommand(newScoresAddCmd())
	cmd.AddCommand(newScoresMeCmd())

	return cmd
}

func newScoresListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/scores"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}
			var result []response.LeaderboardEntry

			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (default: server default)")

	return cmd
}

func newScoresAddCmd() *cobra.Command {
	var (
		player, gameType string
		points           int
		link             bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a score entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"playerName": player,
				"points":     points,
				"gameType":   gameType,
			}
			if link {
				var me response.User
				if err := client.Get("/api/v1/user", &me); err != nil {
					return err
				}
				req["identityId"] = me.ID
			}
			var result response.ScoreEntry

			if err := client.Post("/api/v1/scores", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Player name (required)")
	cmd.Flags().IntVar(&points, "points", 0, "Signed point delta (required)")
	cmd.Flags().StringVar(&gameType, "game", "", "Game type (required)")
	cmd.Flags().BoolVar(&link, "link", false, "Link the entry to the logged in user")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("points")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}

func newScoresMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user's total",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.UserTotal

			if err := client.Get("/api/v1/scores/me", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
