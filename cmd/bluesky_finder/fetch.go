package main

import (
	"context"

	"github.com/spf13/cobra"
)

var fetchCommand = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch profiles and posts for discovered candidates",
	Long:  "Enriches stored candidates with profile and post data. Profiles refresh when missing or older than the TTL; posts refresh only when missing, unless forced.",
	RunE:  runFetchCmd,
}

var fetchForce bool

func init() {
	fetchCommand.Flags().BoolVar(&fetchForce, "force", false, "Force re-fetch of profiles and posts regardless of TTL")
	rootCmd.AddCommand(fetchCommand)
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	p, cleanup, err := buildPipeline(ctx, true, false)
	if err != nil {
		return err
	}
	defer cleanup()

	return p.Fetch(ctx, fetchForce)
}
