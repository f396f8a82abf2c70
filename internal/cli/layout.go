package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cardshelf/showcase/internal/book"
	"github.com/cardshelf/showcase/internal/database"
	"github.com/cardshelf/showcase/internal/database/catalog"
)

func newLayoutCmd(opts *rootOptions) *cobra.Command {
	var storeName string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the flip-book page sequence of every public album",
		Long: `Layout prints, for each public album of a store, the pages the flip book
renders: cover, interior pages in index order, the filler page when the
interior count is odd, and the back cover.

Examples:
  showcase layout --store kanto-cards
  DEFAULT_STORE=kanto-cards showcase layout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config()
			if storeName == "" {
				storeName = cfg.Global.DefaultStore
			}
			if storeName == "" {
				return errors.New("--store is required when DEFAULT_STORE is not set")
			}

			db, err := database.NewQuietDatabase(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			repo := catalog.NewRepository(db.DB)
			store, err := repo.GetStoreByName(storeName)
			if err != nil {
				return err
			}

			albums, err := repo.GetPublicAlbums(store.ID)
			if err != nil {
				return fmt.Errorf("load albums: %w", err)
			}

			out := cmd.OutOrStdout()
			rule := strings.Repeat("─", min(terminalWidth(out), 60))

			if len(albums) == 0 {
				fmt.Fprintln(out, colorize.YellowString("No public albums for %s", store.StoreName))
			}
			for _, album := range albums {
				pages, err := repo.GetAlbumPages(album.ID)
				if err != nil {
					return fmt.Errorf("load pages of album %d: %w", album.ID, err)
				}
				printLayout(out, rule, book.BuildLayout(album, pages))
			}

			decks, err := repo.GetPublicDecks(store.ID)
			if err != nil {
				return fmt.Errorf("load decks: %w", err)
			}
			for _, deck := range decks {
				fmt.Fprintf(out, "%s %s (%d slides)\n", colorize.MagentaString("Deck:"), colorize.HiWhiteString(deck.Name), len(deck.Cards))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&storeName, "store", "s", "", "Store name (default $DEFAULT_STORE)")
	return cmd
}

func printLayout(out io.Writer, rule string, layout *book.Layout) {
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%s %s  %s\n",
		colorize.CyanString("Album:"), colorize.HiWhiteString(layout.Title),
		colorize.HiBlackString("%d pages, %d interior", layout.Len(), layout.InteriorCount()))

	for _, page := range layout.Pages {
		fmt.Fprintf(out, "  %3d  %s\n", page.Number, describePage(page))
	}
}

func describePage(page book.Page) string {
	switch page.Kind {
	case book.KindCover, book.KindBack:
		art := page.ImageURL
		if page.Placeholder {
			art = "solid " + page.Color
		}
		return fmt.Sprintf("%-8s %s", colorize.GreenString(string(page.Kind)), art)
	case book.KindFiller:
		return colorize.HiBlackString("filler")
	}

	var names []string
	for _, slot := range page.Slots {
		if slot.Present {
			names = append(names, fmt.Sprintf("%d:%s", slot.Index, slot.Card.Name))
		}
	}
	cards := colorize.HiBlackString("empty")
	if len(names) > 0 {
		cards = strings.Join(names, ", ")
	}
	return fmt.Sprintf("%-8s index %d  %s", colorize.BlueString("page"), page.PageIndex, cards)
}
