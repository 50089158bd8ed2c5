package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/matthewdeanmartin/bluesky-finder/internal/bsky"
	"github.com/matthewdeanmartin/bluesky-finder/internal/config"
	"github.com/matthewdeanmartin/bluesky-finder/internal/llm"
	"github.com/matthewdeanmartin/bluesky-finder/internal/pipeline"
	"github.com/matthewdeanmartin/bluesky-finder/internal/store"
)

// buildPipeline loads config, opens the store, and wires only the
// collaborators the invoking command needs. The returned cleanup closes
// everything it opened.
func buildPipeline(ctx context.Context, needSource, needLLM bool) (*pipeline.Pipeline, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	var closers []func()
	closers = append(closers, func() { _ = st.Close() })
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	opts := pipeline.Options{
		Config:     cfg,
		Store:      st,
		Logger:     log.Logger,
		Verbose:    verbose,
		VerboseOut: os.Stdout,
	}

	if needSource {
		if err := cfg.RequireBsky(); err != nil {
			cleanup()
			return nil, nil, err
		}
		client, err := bsky.Dial(ctx, cfg.BskyHost, cfg.BskyUsername, cfg.BskyPassword, log.Logger)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to open Bluesky session: %w", err)
		}
		opts.Source = client
	}

	if needLLM {
		if err := cfg.RequireLLM(); err != nil {
			cleanup()
			return nil, nil, err
		}
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create model client: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		opts.Evaluator = llm.NewEvaluator(client, llm.NormalizeOptions{
			Thresholds: llm.Thresholds{Match: cfg.MatchThreshold, Maybe: cfg.MaybeThreshold},
			Fallbacks:  llm.DefaultFallbackScores(),
		})
	}

	return pipeline.New(opts), cleanup, nil
}
