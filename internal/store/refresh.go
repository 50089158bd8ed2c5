package store

import (
	"time"

	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

// NeedsProfileRefresh reports whether the candidate's profile should be
// fetched: no profile exists yet, force is set, or the stored profile is
// older than ttl as of now. Pure predicate over entity state and the given
// clock reading.
func NeedsProfileRefresh(c *types.Candidate, force bool, ttl time.Duration, now time.Time) bool {
	if c.Profile == nil {
		return true
	}
	if force {
		return true
	}
	return now.Sub(c.Profile.FetchedAt) > ttl
}

// NeedsPostsRefresh reports whether the candidate's post set should be
// fetched. Only emptiness or force triggers a refresh; posts intentionally
// have no time-based TTL, unlike profiles.
func NeedsPostsRefresh(c *types.Candidate, force bool) bool {
	return len(c.Posts) == 0 || force
}

// NeedsEvaluation reports whether the candidate should be scored. A
// candidate missing a profile or posts is never eligible, regardless of
// force; otherwise it is eligible when unscored or when force is set.
func NeedsEvaluation(c *types.Candidate, force bool) bool {
	if c.Profile == nil || len(c.Posts) == 0 {
		return false
	}
	return c.Evaluation == nil || force
}
