package pipeline

import (
	"context"

	"github.com/matthewdeanmartin/bluesky-finder/internal/store"
)

// Export writes qualifying candidates to a timestamped file in the given
// format and returns the path and written count.
func (p *Pipeline) Export(ctx context.Context, format string) (string, int, error) {
	run := p.startRun(ctx, StageExport)

	candidates, err := p.store.ListCandidates(ctx)
	if err != nil {
		p.finishRun(ctx, run, store.RunFailed, 0)
		return "", 0, err
	}

	path, count, err := p.exporter.Export(candidates, format)
	if err != nil {
		p.finishRun(ctx, run, store.RunFailed, 0)
		return "", 0, err
	}

	p.finishRun(ctx, run, store.RunCompleted, count)
	p.log.Info().Str("path", path).Int("exported", count).Msg("export complete")
	return path, count, nil
}
