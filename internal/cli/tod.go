package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/partygames/internal/api/response"
)

func newTodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tod",
		Aliases: []string{"truth-or-dare"},
		Short:   "Truth-or-dare session commands",
	}

	cmd.AddCommand(newTodNewCmd())
	cmd.AddCommand(newTodShowCmd())
	cmd.AddCommand(newTodModeCmd())
	cmd.AddCommand(newTodCountCmd())
	cmd.AddCommand(newTodAddCmd())
	cmd.AddCommand(newTodDrawCmd())
	cmd.AddCommand(newTodResolveCmd())
	cmd.AddCommand(newTodEndCmd())

	return cmd
}

func sessionPath(id string, suffix string) string {
	return "/api/v1/truth-or-dare/sessions/" + url.PathEscape(id) + suffix
}

// sessionCmd builds a command that sends body to one session endpoint and prints the updated session
func sessionCmd(use, short, method, suffix string, nargs int, body func(args []string) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := body(args)
			if err != nil {
				return err
			}
			var result response.Session

			if err := client.Do(method, sessionPath(args[0], suffix), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTodNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Post("/api/v1/truth-or-dare/sessions", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTodShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Get(sessionPath(args[0], ""), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTodModeCmd() *cobra.Command {
	return sessionCmd("mode <session-id> <kids|normal|spicy>", "Select the question mode", http.MethodPut, "/mode", 2,
		func(args []string) (any, error) {
			return map[string]string{"mode": args[1]}, nil
		})
}

func newTodCountCmd() *cobra.Command {
	return sessionCmd("count <session-id> <n>", "Set the number of players", http.MethodPut, "/player-count", 2,
		func(args []string) (any, error) {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("invalid player count %q", args[1])
			}
			return map[string]int{"count": n}, nil
		})
}

func newTodAddCmd() *cobra.Command {
	var linkSelf bool

	cmd := sessionCmd("add <session-id> <name>", "Add a player", http.MethodPost, "/players", 2,
		func(args []string) (any, error) {
			return map[string]any{"name": args[1], "linkSelf": linkSelf}, nil
		})
	cmd.Flags().BoolVar(&linkSelf, "link-self", false, "Link the player to the logged in user")

	return cmd
}

func newTodDrawCmd() *cobra.Command {
	var locale string

	cmd := sessionCmd("draw <session-id> <truth|dare>", "Draw a challenge for the current player", http.MethodPost, "/challenge", 2,
		func(args []string) (any, error) {
			req := map[string]string{"type": args[1]}
			if locale != "" {
				req["locale"] = locale
			}
			return req, nil
		})
	cmd.Flags().StringVar(&locale, "locale", "", "Display language: de or en")

	return cmd
}

func newTodResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <session-id> <completed|skipped>",
		Short: "Resolve the open challenge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ResolveResponse

			if err := client.Post(sessionPath(args[0], "/resolve"), map[string]string{"outcome": args[1]}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTodEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End and discard a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(sessionPath(args[0], "")); err != nil {
				return err
			}

			output(cmd).PrintMessage("Session ended")
			return nil
		},
	}
}
