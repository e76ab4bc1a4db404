package cmd

import (
	"fmt"

	"github.com/shortgame/shortgame/internal/app"
	"github.com/shortgame/shortgame/internal/config"

	"github.com/spf13/cobra"
)

func SeedCmd(cfg *config.Config) *cobra.Command {
	var clear bool

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the demo data set, or remove it with --clear",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(a *app.App) error {
				if clear {
					n, err := a.SeedService.Clear(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "removed %d seed rounds\n", n)
					return nil
				}

				n, err := a.SeedService.Seed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d seed rounds\n", n)
				return nil
			})
		},
	}

	seedCmd.Flags().BoolVar(&clear, "clear", false, "delete seed rounds instead of writing them")
	return seedCmd
}
