package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewdeanmartin/bluesky-finder/internal/export"
)

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export qualified candidates to HTML or JSONL",
	Long:  "Writes every candidate scoring at or above the maybe threshold to a timestamped file, sorted by overall score descending.",
	RunE:  runExportCmd,
}

var exportFormat string

func init() {
	exportCommand.Flags().StringVar(&exportFormat, "format", export.FormatHTML, "Export format: html or jsonl")
	rootCmd.AddCommand(exportCommand)
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	p, cleanup, err := buildPipeline(ctx, false, false)
	if err != nil {
		return err
	}
	defer cleanup()

	path, count, err := p.Export(ctx, exportFormat)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d candidates to %s\n", count, path)
	return nil
}
