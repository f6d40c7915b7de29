package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ilibrarian/librarian/internal/library"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import items from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			records, err := library.LoadRecords(f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := library.Open(ctx, cfg.Library.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Import(ctx, records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s items into %s\n", humanize.Comma(int64(n)), cfg.Library.DBPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with an items list")
	return cmd
}
