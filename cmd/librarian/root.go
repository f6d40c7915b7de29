package main

import (
	"github.com/spf13/cobra"

	"github.com/ilibrarian/librarian/internal/platform/config"
)

type rootOptions struct {
	envFile string
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	var opts []config.Option
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	return config.Load(opts...)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "librarian",
		Short:         "Browse a reference library over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to a .env file (default: ./.env)")

	cmd.AddCommand(
		newServeCmd(opts),
		newSeedCmd(opts),
		newCatalogCmd(),
	)
	return cmd
}
