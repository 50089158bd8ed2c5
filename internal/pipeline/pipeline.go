// Package pipeline provides the high-level orchestration for candidate
// discovery, enrichment, evaluation, and export. All stages run as strict
// sequences with a single writer; per-candidate failures are logged and
// skipped, stage-level failures propagate.
package pipeline

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/matthewdeanmartin/bluesky-finder/internal/bsky"
	"github.com/matthewdeanmartin/bluesky-finder/internal/config"
	"github.com/matthewdeanmartin/bluesky-finder/internal/export"
	"github.com/matthewdeanmartin/bluesky-finder/internal/llm"
	"github.com/matthewdeanmartin/bluesky-finder/internal/observability"
	"github.com/matthewdeanmartin/bluesky-finder/internal/store"
	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

// Stage names recorded on pipeline runs.
const (
	StageDiscover = "discover"
	StageFetch    = "fetch"
	StageEvaluate = "evaluate"
	StageExport   = "export"
)

// Source is the capability set the discovery and fetch stages need from the
// social network. All methods degrade to empty results on failure.
type Source interface {
	SearchPosts(ctx context.Context, query string, limit int) []bsky.Actor
	GetFollowers(ctx context.Context, handle string, limit int) []bsky.Actor
	GetFollowing(ctx context.Context, handle string, limit int) []bsky.Actor
	GetProfile(ctx context.Context, did string) *bsky.Profile
	GetAuthorFeed(ctx context.Context, did string, limit int) []bsky.Post
}

// Evaluator scores a single candidate, returning a schema-valid evaluation
// or an error that aborts only that candidate.
type Evaluator interface {
	Evaluate(ctx context.Context, in llm.EvalInput) (*types.Evaluation, error)
	Model() string
}

// Options wires the pipeline's collaborators. Source and Evaluator may be
// nil for stages that do not need them.
type Options struct {
	Config    *config.Config
	Store     *store.Store
	Source    Source
	Evaluator Evaluator
	Logger    zerolog.Logger
	Verbose   bool
	// VerboseOut receives the verbose summaries; defaults to io.Discard
	// when unset and Verbose is false.
	VerboseOut io.Writer
	// OutDir is where export files land; defaults to the working directory.
	OutDir string
}

// Pipeline sequences Discover → Fetch → Evaluate → Export over the store.
type Pipeline struct {
	cfg       *config.Config
	store     *store.Store
	source    Source
	evaluator Evaluator
	exporter  *export.Exporter
	log       zerolog.Logger
	printer   *observability.Printer
	verbose   bool
}

// New constructs a Pipeline from its collaborators.
func New(opts Options) *Pipeline {
	out := opts.VerboseOut
	if out == nil {
		out = io.Discard
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}
	thresholds := llm.Thresholds{
		Match: opts.Config.MatchThreshold,
		Maybe: opts.Config.MaybeThreshold,
	}
	return &Pipeline{
		cfg:       opts.Config,
		store:     opts.Store,
		source:    opts.Source,
		evaluator: opts.Evaluator,
		exporter:  export.New(outDir, thresholds),
		log:       opts.Logger,
		printer:   observability.NewPrinter(out),
		verbose:   opts.Verbose,
	}
}

// finishRun closes out a stage's run record; bookkeeping failures are logged
// but never override the stage result.
func (p *Pipeline) finishRun(ctx context.Context, runID runID, status string, processed int) {
	if runID.ok {
		if err := p.store.CompleteRun(ctx, runID.id, status, processed); err != nil {
			p.log.Warn().Err(err).Msg("failed to finalize run record")
		}
	}
}

// startRun opens a stage run record. Failure to record is non-fatal.
func (p *Pipeline) startRun(ctx context.Context, stage string) runID {
	id, err := p.store.StartRun(ctx, stage)
	if err != nil {
		p.log.Warn().Err(err).Str("stage", stage).Msg("failed to record run start")
		return runID{}
	}
	return runID{id: id, ok: true}
}

type runID struct {
	id uuid.UUID
	ok bool
}
