package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewdeanmartin/bluesky-finder/internal/export"
)

var runAllCommand = &cobra.Command{
	Use:   "run-all",
	Short: "Run the full pipeline: discover, fetch, evaluate, export",
	RunE:  runAllCmd,
}

var (
	runAllForce  bool
	runAllFormat string
)

func init() {
	runAllCommand.Flags().BoolVar(&runAllForce, "force", false, "Force fetch and evaluation")
	runAllCommand.Flags().StringVar(&runAllFormat, "format", export.FormatHTML, "Export format: html or jsonl")
	rootCmd.AddCommand(runAllCommand)
}

func runAllCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	p, cleanup, err := buildPipeline(ctx, true, true)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println("--- Step 1: Discover ---")
	if _, err := p.Discover(ctx); err != nil {
		return fmt.Errorf("discover stage failed: %w", err)
	}

	fmt.Println("--- Step 2: Fetch ---")
	if err := p.Fetch(ctx, runAllForce); err != nil {
		return fmt.Errorf("fetch stage failed: %w", err)
	}

	fmt.Println("--- Step 3: Evaluate ---")
	if err := p.Evaluate(ctx, runAllForce); err != nil {
		return fmt.Errorf("evaluate stage failed: %w", err)
	}

	fmt.Println("--- Step 4: Export ---")
	path, count, err := p.Export(ctx, runAllFormat)
	if err != nil {
		return fmt.Errorf("export stage failed: %w", err)
	}
	fmt.Printf("Exported %d candidates to %s\n", count, path)
	return nil
}
