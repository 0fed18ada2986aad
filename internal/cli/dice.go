package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/partygames/internal/api/response"
)

func newDiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dice",
		Short: "Dice game commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "roll",
		Short: "Roll the party die",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.DiceRoll

			if err := client.Get("/api/v1/dice/roll", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
