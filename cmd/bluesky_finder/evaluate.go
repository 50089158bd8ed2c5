package main

import (
	"context"

	"github.com/spf13/cobra"
)

var evaluateCommand = &cobra.Command{
	Use:   "evaluate",
	Short: "Run LLM evaluation on fetched candidates",
	Long:  "Scores every candidate that has a profile and posts but no evaluation yet. Use --force to re-score already-evaluated candidates.",
	RunE:  runEvaluateCmd,
}

var evaluateForce bool

func init() {
	evaluateCommand.Flags().BoolVar(&evaluateForce, "force", false, "Force re-evaluation even if already scored")
	rootCmd.AddCommand(evaluateCommand)
}

func runEvaluateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	p, cleanup, err := buildPipeline(ctx, false, true)
	if err != nil {
		return err
	}
	defer cleanup()

	return p.Evaluate(ctx, evaluateForce)
}
