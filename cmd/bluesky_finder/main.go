// Package main provides the bluesky_finder CLI: discovery, enrichment,
// LLM evaluation, and export of DC-area tech candidates on Bluesky.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bluesky_finder",
	Short: "DC-area tech professional discovery on Bluesky",
	Long:  "bluesky_finder discovers Bluesky accounts via hashtag search and social-graph traversal, scores them with an LLM against a DC-area tech rubric, and exports qualifying candidates.",
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed per-candidate output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
