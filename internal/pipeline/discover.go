package pipeline

import (
	"context"
	"fmt"

	"github.com/matthewdeanmartin/bluesky-finder/internal/bsky"
	"github.com/matthewdeanmartin/bluesky-finder/internal/store"
	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

// Discover populates the store with minimal identity records found via
// hashtag search and anchor-account graph traversal. Returns the number of
// previously unseen candidates.
func (p *Pipeline) Discover(ctx context.Context) (int, error) {
	if p.source == nil {
		return 0, fmt.Errorf("pipeline: discover requires a source client")
	}

	run := p.startRun(ctx, StageDiscover)
	newCount := 0

	p.log.Info().Msg("starting discovery")

	for _, tag := range p.cfg.SeedHashtags {
		actors := p.source.SearchPosts(ctx, tag, p.cfg.MaxCandidatesPerHashtag)
		added, err := p.upsertAll(ctx, actors, types.SourceHashtag)
		if err != nil {
			p.finishRun(ctx, run, store.RunFailed, newCount)
			return newCount, err
		}
		newCount += added
		p.log.Info().Str("hashtag", tag).Int("seen", len(actors)).Int("new", added).Msg("hashtag discovery")
	}

	// Half the per-anchor budget goes to followers, half to follows.
	perDirection := p.cfg.MaxAccountsPerAnchor / 2
	for _, anchor := range p.cfg.AnchorHandles {
		followers := p.source.GetFollowers(ctx, anchor, perDirection)
		added, err := p.upsertAll(ctx, followers, types.SourceAnchorFollow)
		if err != nil {
			p.finishRun(ctx, run, store.RunFailed, newCount)
			return newCount, err
		}
		newCount += added

		following := p.source.GetFollowing(ctx, anchor, perDirection)
		more, err := p.upsertAll(ctx, following, types.SourceAnchorFollow)
		if err != nil {
			p.finishRun(ctx, run, store.RunFailed, newCount)
			return newCount, err
		}
		newCount += more

		p.log.Info().Str("anchor", anchor).
			Int("followers", len(followers)).Int("following", len(following)).
			Int("new", added+more).Msg("anchor discovery")
	}

	p.finishRun(ctx, run, store.RunCompleted, newCount)
	p.log.Info().Int("new_candidates", newCount).Msg("discovery complete")
	return newCount, nil
}

func (p *Pipeline) upsertAll(ctx context.Context, actors []bsky.Actor, source types.DiscoverySource) (int, error) {
	added := 0
	for _, actor := range actors {
		isNew, err := p.store.UpsertIdentity(ctx, actor.DID, actor.Handle, source)
		if err != nil {
			return added, fmt.Errorf("pipeline: upsert %s: %w", actor.DID, err)
		}
		if isNew {
			added++
		}
	}
	return added, nil
}
