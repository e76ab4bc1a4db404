package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shortgame/shortgame/internal/app"
	"github.com/shortgame/shortgame/internal/config"
	"github.com/shortgame/shortgame/internal/repository"

	"github.com/spf13/cobra"
)

func RoundsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rounds [round-id]",
		Short: "List stored rounds, or show one round hole by hole",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(a *app.App) error {
				if len(args) == 1 {
					return showRound(cmd, a, args[0])
				}
				return listRounds(cmd, a)
			})
		},
	}
}

func listRounds(cmd *cobra.Command, a *app.App) error {
	rounds, err := a.RoundService.Rounds(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range rounds {
		seed := ""
		if r.IsSeed {
			seed = " (seed)"
		}
		fmt.Fprintf(out, "%s  %s  user %s%s\n", r.ID, r.Date.Format("2006-01-02"), r.TelegramUserID, seed)
	}
	fmt.Fprintf(out, "%d rounds\n", len(rounds))
	return nil
}

func showRound(cmd *cobra.Command, a *app.App, roundID string) error {
	detail, err := a.RoundService.Detail(cmd.Context(), roundID)
	if errors.Is(err, repository.ErrRoundNotFound) {
		return fmt.Errorf("round %s: %w", roundID, err)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(detail)
}
