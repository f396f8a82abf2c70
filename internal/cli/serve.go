package cli

import (
	"github.com/spf13/cobra"

	"github.com/cardshelf/showcase/internal/entrypoint"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serve starts the showcase HTTP server. Configuration comes from the
environment (PORT, HOST, DATABASE_PATH, DEFAULT_STORE, ...).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
}

func runServe(opts *rootOptions) error {
	entrypoint.Run(opts.config(), opts.version)
	return nil
}
