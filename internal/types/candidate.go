// Package types defines the core domain records shared across the pipeline.
package types

import "time"

// DiscoverySource identifies the mechanism by which a candidate was found.
type DiscoverySource string

// Known discovery sources.
const (
	SourceHashtag      DiscoverySource = "hashtag"
	SourceAnchorFollow DiscoverySource = "anchor_follow"
)

// Candidate is a discovered account under evaluation. The DID is the stable
// primary key; the handle is a convenience copy and may be stale.
type Candidate struct {
	DID              string            `json:"did"`
	Handle           string            `json:"handle"`
	DiscoverySources []DiscoverySource `json:"discovery_sources"`
	DiscoveredAt     time.Time         `json:"discovered_at"`

	Profile    *Profile    `json:"profile,omitempty"`
	Posts      []Post      `json:"posts,omitempty"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// HasSource reports whether the candidate was already discovered via source.
func (c *Candidate) HasSource(source DiscoverySource) bool {
	for _, s := range c.DiscoverySources {
		if s == source {
			return true
		}
	}
	return false
}

// Profile holds the public profile snapshot for a candidate. The whole
// record is replaced on each successful fetch.
type Profile struct {
	DID         string    `json:"did"`
	Handle      string    `json:"handle"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatar_url"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Post is a single stored post. Pure reposts are filtered at fetch time and
// never stored, so IsRepost is always false for persisted rows.
type Post struct {
	URI       string    `json:"uri"`
	CID       string    `json:"cid"`
	AuthorDID string    `json:"author_did"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
	IsRepost  bool      `json:"is_repost"`
}
