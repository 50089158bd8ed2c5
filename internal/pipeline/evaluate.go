package pipeline

import (
	"context"
	"fmt"

	"github.com/matthewdeanmartin/bluesky-finder/internal/llm"
	"github.com/matthewdeanmartin/bluesky-finder/internal/store"
)

// Evaluate scores eligible candidates via the model. A candidate is eligible
// only with both a profile and at least one post; per-candidate failures are
// logged and skipped, leaving no placeholder record, so the next run retries
// them naturally.
func (p *Pipeline) Evaluate(ctx context.Context, force bool) error {
	if p.evaluator == nil {
		return fmt.Errorf("pipeline: evaluate requires an evaluator")
	}

	run := p.startRun(ctx, StageEvaluate)

	candidates, err := p.store.ListCandidates(ctx)
	if err != nil {
		p.finishRun(ctx, run, store.RunFailed, 0)
		return err
	}

	p.log.Info().Int("candidates", len(candidates)).Bool("force", force).Msg("starting evaluation")

	processed := 0
	skipped := 0
	for i := range candidates {
		cand := &candidates[i]
		if !store.NeedsEvaluation(cand, force) {
			skipped++
			continue
		}

		in := llm.EvalInput{
			Handle: cand.Handle,
			Bio:    cand.Profile.Description,
		}
		for _, post := range cand.Posts {
			in.Posts = append(in.Posts, llm.EvalPost{Text: post.Text, CreatedAt: post.CreatedAt})
		}

		eval, err := p.evaluator.Evaluate(ctx, in)
		if err != nil {
			p.log.Warn().Err(err).Str("handle", cand.Handle).Msg("evaluation failed, skipping candidate")
			skipped++
			continue
		}

		if err := p.store.ReplaceEvaluation(ctx, cand.DID, *eval); err != nil {
			p.finishRun(ctx, run, store.RunFailed, processed)
			return err
		}
		processed++

		p.log.Info().Str("handle", cand.Handle).
			Str("label", string(eval.Label)).
			Float64("overall", eval.ScoreOverall).
			Msg("candidate evaluated")
		if p.verbose {
			p.printer.PrintEvaluation(cand.Handle, eval)
		}
	}

	p.finishRun(ctx, run, store.RunCompleted, processed)
	if p.verbose {
		p.printer.PrintStageSummary(StageEvaluate, processed, skipped)
	}
	p.log.Info().Int("evaluated", processed).Int("skipped", skipped).Msg("evaluation complete")
	return nil
}
