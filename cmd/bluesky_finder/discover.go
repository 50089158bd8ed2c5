package main

import (
	"context"

	"github.com/spf13/cobra"
)

var discoverCommand = &cobra.Command{
	Use:   "discover",
	Short: "Run seed discovery (hashtags and anchor accounts)",
	Long:  "Searches the seed hashtags and walks the anchor accounts' social graphs, recording minimal identity records for every account seen.",
	RunE:  runDiscoverCmd,
}

func init() {
	rootCmd.AddCommand(discoverCommand)
}

func runDiscoverCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	p, cleanup, err := buildPipeline(ctx, true, false)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = p.Discover(ctx)
	return err
}
