package main

import (
	"context"
	"os"

	"github.com/aussiebroadwan/inkwell/internal/blog/app"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "inkwell",
		Short: "Inkwell - a minimal blog",
		Long: `Inkwell serves a small blog: one administrator writes Markdown posts,
everyone else reads them.

Run without a subcommand to start the web server.`,
		Version:      app.BuildVersion,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $INKWELL_CONFIG)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newUseraddCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
