package cli

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cardshelf/showcase/internal/database"
	"github.com/cardshelf/showcase/internal/database/catalog"
	"github.com/cardshelf/showcase/internal/seed"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "seed <catalog.toml>",
		Short: "Load a catalog file into the database",
		Long: `Seed reads a TOML catalog file and writes its stores, albums and decks to
the database. Every store named in the file is replaced as a whole, so
running the same file twice leaves the database unchanged.

Examples:
  showcase seed catalog.toml
  showcase seed --db ./showcase.db --dry-run catalog.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			catalogs, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintln(out, colorize.YellowString("Dry run: nothing will be written"))
				printSeedSummary(cmd, "Would import:", catalogs, summarize(catalogs))
				return nil
			}

			db, err := database.NewQuietDatabase(opts.config().Database.Path)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			result, err := catalog.NewImporter(db.DB).Import(catalogs)
			if err != nil {
				return fmt.Errorf("import catalog: %w", err)
			}

			printSeedSummary(cmd, "Imported:", catalogs, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file and show what would be imported")
	return cmd
}

// summarize counts what an import of catalogs would write.
func summarize(catalogs []catalog.StoreCatalog) catalog.ImportResult {
	var r catalog.ImportResult
	for _, sc := range catalogs {
		r.Stores++
		r.Albums += len(sc.Albums)
		for _, a := range sc.Albums {
			r.Pages += len(a.Pages)
			for _, p := range a.Pages {
				r.Slots += len(p.Slots)
			}
		}
		r.Decks += len(sc.Decks)
		for _, d := range sc.Decks {
			r.Cards += len(d.Cards)
		}
	}
	return r
}

func printSeedSummary(cmd *cobra.Command, label string, catalogs []catalog.StoreCatalog, r catalog.ImportResult) {
	out := cmd.OutOrStdout()
	for _, sc := range catalogs {
		fmt.Fprintf(out, "%s %s (%d albums, %d decks)\n",
			colorize.CyanString("Store:"), colorize.HiWhiteString(sc.Store.StoreName), len(sc.Albums), len(sc.Decks))
	}
	fmt.Fprintf(out, "%s %d stores, %d albums, %d pages, %d slots, %d decks, %d deck cards\n",
		colorize.GreenString(label), r.Stores, r.Albums, r.Pages, r.Slots, r.Decks, r.Cards)
}
