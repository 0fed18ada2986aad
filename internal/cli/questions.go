package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/partygames/internal/api/response"
)

func newQuestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"q"},
		Short:   "Question bank commands",
	}

	cmd.AddCommand(newQuestionsEligibleCmd())
	cmd.AddCommand(newQuestionsListCmd())
	cmd.AddCommand(newQuestionsAddCmd())
	cmd.AddCommand(newQuestionsRemoveCmd())
	cmd.AddCommand(newQuestionsImportCmd())
	cmd.AddCommand(newQuestionsExportCmd())

	return cmd
}

func newQuestionsEligibleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eligible <truth|dare> <kids|normal|spicy>",
		Short: "List the active questions a session can draw",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Question
			path := fmt.Sprintf("/api/v1/questions/%s/%s", url.PathEscape(args[0]), url.PathEscape(args[1]))

			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newQuestionsListCmd() *cobra.Command {
	var qType, mode, active string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all questions (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if qType != "" {
				query.Set("type", qType)
			}
			if mode != "" {
				query.Set("mode", mode)
			}
			if active != "" {
				query.Set("active", active)
			}
			path := "/api/v1/questions"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var result []response.Question
			if err := client.Get(path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&qType, "type", "", "Filter by type")
	cmd.Flags().StringVar(&mode, "mode", "", "Filter by mode")
	cmd.Flags().StringVar(&active, "active", "", "Filter by active flag (true/false)")

	return cmd
}

func newQuestionsAddCmd() *cobra.Command {
	var qType, mode, content, contentEN string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"type":    qType,
				"mode":    mode,
				"content": content,
			}
			if contentEN != "" {
				req["contentEn"] = contentEN
			}
			var result response.Question

			if err := client.Post("/api/v1/questions", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&qType, "type", "", "truth or dare (required)")
	cmd.Flags().StringVar(&mode, "mode", "", "kids, normal or spicy (required)")
	cmd.Flags().StringVar(&content, "content", "", "German text (required)")
	cmd.Flags().StringVar(&contentEN, "en", "", "English text")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("mode")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func newQuestionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Deactivate a question (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid question id %q", args[0])
			}

			if err := client.Delete(fmt.Sprintf("/api/v1/questions/%d", id)); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Question %d deactivated", id))
			return nil
		},
	}
}

func newQuestionsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import questions from a YAML file (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			body, err := client.DoRaw(http.MethodPost, "/api/v1/questions/import", "application/yaml", bytes.NewReader(data))
			if err != nil {
				return err
			}

			var result response.ImportResult
			if err := decodeJSON(body, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newQuestionsExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the question bank as YAML (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.DoRaw(http.MethodGet, "/api/v1/questions/export", "", nil)
			if err != nil {
				return err
			}

			if file == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			return os.WriteFile(file, body, 0644)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to file instead of stdout")

	return cmd
}
