// Package cli holds the showcase command tree.
package cli

import (
	"io"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cardshelf/showcase/internal/config"
	"github.com/cardshelf/showcase/internal/logging"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	dbPath   string
	logLevel string
	version  string

	logCloser io.Closer
}

// config reads the environment and applies flag overrides on top.
func (o *rootOptions) config() *config.Config {
	cfg := config.NewConfig()
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg
}

// NewRootCmd builds the command tree. Running it without a subcommand starts
// the HTTP server.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	root := &cobra.Command{
		Use:   "showcase",
		Short: "Public showcase for a store's card albums and decks",
		Long: `Showcase serves a store's card collection as flip-book albums and deck
carousels, with live search, remote card lookup and a tilting card viewer.

Without a subcommand it starts the HTTP server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logCloser = logging.Setup(opts.config().Logging)
			useColor(cmd.OutOrStdout())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logCloser != nil {
				_ = opts.logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the catalog database (default $DATABASE_PATH or "+config.DefaultDatabasePath+")")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newServeCmd(opts),
		newSeedCmd(opts),
		newLayoutCmd(opts),
		newLookupCmd(opts),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// useColor disables ANSI colours unless out is a terminal.
func useColor(out io.Writer) {
	f, ok := out.(*os.File)
	colorize.NoColor = !ok || !term.IsTerminal(int(f.Fd()))
}

// terminalWidth reports the width of out, or 80 when it is not a terminal.
func terminalWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}
