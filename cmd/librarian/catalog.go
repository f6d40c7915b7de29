package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ilibrarian/librarian/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	var (
		maxID      int
		bucketSize int
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the catalog id ranges for a maximum id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buckets, err := catalog.Partition(maxID, bucketSize)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, b := range buckets {
				fmt.Fprintf(out, "%s-%s\n", humanize.Comma(int64(b.StartID)), humanize.Comma(int64(b.EndID)))
			}
			fmt.Fprintf(out, "%d buckets\n", len(buckets))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxID, "max-id", 0, "Highest item id")
	cmd.Flags().IntVar(&bucketSize, "range", catalog.DefaultBucketSize, "Ids per bucket")
	return cmd
}
