package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matthewdeanmartin/bluesky-finder/internal/store"
	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

// Fetch enriches candidates with profile and post data subject to the
// refresh predicates. Each candidate's writes are committed before the next
// candidate starts, so a crash mid-batch loses at most the in-flight one.
func (p *Pipeline) Fetch(ctx context.Context, force bool) error {
	if p.source == nil {
		return fmt.Errorf("pipeline: fetch requires a source client")
	}

	run := p.startRun(ctx, StageFetch)

	candidates, err := p.store.ListCandidates(ctx)
	if err != nil {
		p.finishRun(ctx, run, store.RunFailed, 0)
		return err
	}

	p.log.Info().Int("candidates", len(candidates)).Bool("force", force).Msg("starting fetch")

	processed := 0
	for i := range candidates {
		cand := &candidates[i]

		if store.NeedsProfileRefresh(cand, force, p.cfg.ProfileTTL(), time.Now().UTC()) {
			if err := p.fetchProfile(ctx, cand); err != nil {
				p.finishRun(ctx, run, store.RunFailed, processed)
				return err
			}
		}

		if store.NeedsPostsRefresh(cand, force) {
			if err := p.fetchPosts(ctx, cand); err != nil {
				p.finishRun(ctx, run, store.RunFailed, processed)
				return err
			}
		}

		processed++
	}

	p.finishRun(ctx, run, store.RunCompleted, processed)
	p.log.Info().Int("processed", processed).Msg("fetch complete")
	return nil
}

// fetchProfile pulls and stores a fresh profile. A fetch failure surfaces as
// a nil profile from the source and leaves the previous record untouched;
// only store errors propagate.
func (p *Pipeline) fetchProfile(ctx context.Context, cand *types.Candidate) error {
	data := p.source.GetProfile(ctx, cand.DID)
	if data == nil {
		p.log.Warn().Str("did", cand.DID).Str("handle", cand.Handle).Msg("profile unavailable, skipping")
		return nil
	}

	profile := types.Profile{
		DID:         data.DID,
		Handle:      data.Handle,
		DisplayName: data.DisplayName,
		Description: data.Description,
		AvatarURL:   data.AvatarURL,
	}
	if err := p.store.ReplaceProfile(ctx, cand.DID, profile); err != nil {
		return err
	}
	p.log.Debug().Str("handle", data.Handle).Msg("profile fetched")
	return nil
}

// fetchPosts pulls and stores the candidate's recent posts. An empty result
// may mean failure or a quiet account; both replace the stored set, matching
// the source client's degrade-gracefully contract.
func (p *Pipeline) fetchPosts(ctx context.Context, cand *types.Candidate) error {
	feed := p.source.GetAuthorFeed(ctx, cand.DID, p.cfg.FetchPostsLimit)

	posts := make([]types.Post, 0, len(feed))
	for _, item := range feed {
		posts = append(posts, types.Post{
			URI:       item.URI,
			CID:       item.CID,
			AuthorDID: item.AuthorDID,
			CreatedAt: item.CreatedAt,
			Text:      item.Text,
			IsRepost:  false,
		})
	}

	if err := p.store.ReplacePosts(ctx, cand.DID, posts); err != nil {
		return err
	}
	p.log.Debug().Str("handle", cand.Handle).Int("posts", len(posts)).Msg("posts fetched")
	return nil
}
