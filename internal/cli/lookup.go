package cli

import (
	"context"
	"fmt"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cardshelf/showcase/internal/entrypoint"
	"github.com/cardshelf/showcase/internal/lookup"
)

func newLookupCmd(opts *rootOptions) *cobra.Command {
	var gameName string

	cmd := &cobra.Command{
		Use:   "lookup <query>",
		Short: "Search the remote card database once",
		Long: `Lookup sends one query to the remote card database for the chosen game
and prints the de-duplicated hits the showcase result pane would show.

Examples:
  showcase lookup pikachu
  showcase lookup --type yugioh "dark magician"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config()
			if gameName == "" {
				gameName = cfg.Lookup.DefaultGame
			}
			game, err := lookup.ParseGame(gameName)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Search.RemoteTimeout)
			defer cancel()

			query := strings.Join(args, " ")
			cards, err := entrypoint.NewLookupRegistry(cfg.Lookup).Search(ctx, game, query)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", query, err)
			}

			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				fmt.Fprintln(out, colorize.YellowString("No %s cards match %q", game, query))
				return nil
			}
			for _, c := range cards {
				fmt.Fprintf(out, "%s  %s\n", colorize.HiWhiteString(c.Name), colorize.HiBlackString(c.Details))
				if c.Set != "" || c.Rarity != "" {
					fmt.Fprintf(out, "    %s %s  %s %s\n", colorize.CyanString("Set:"), c.Set, colorize.CyanString("Rarity:"), c.Rarity)
				}
				if c.ImageURLLarge != "" {
					fmt.Fprintf(out, "    %s\n", c.ImageURLLarge)
				}
			}
			fmt.Fprintf(out, "%s %d\n", colorize.GreenString("Results:"), len(cards))
			return nil
		},
	}

	cmd.Flags().StringVarP(&gameName, "type", "t", "", "Card game: pokemon or yugioh (default $LOOKUP_DEFAULT_GAME)")
	return cmd
}
