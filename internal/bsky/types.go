package bsky

import "time"

// Actor is a minimal identity reference returned by discovery calls.
type Actor struct {
	DID    string
	Handle string
}

// Profile is the public profile snapshot returned by GetProfile.
type Profile struct {
	DID         string
	Handle      string
	DisplayName string
	Description string
	AvatarURL   string
}

// Post is a single authored post from a candidate's feed. Pure reposts are
// filtered out before this type is produced.
type Post struct {
	URI       string
	CID       string
	AuthorDID string
	CreatedAt time.Time
	Text      string
}

// Wire-level shapes for the XRPC endpoints we call.

type sessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	AccessJwt string `json:"accessJwt"`
	DID       string `json:"did"`
	Handle    string `json:"handle"`
}

type actorView struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

type searchPostsResponse struct {
	Posts  []postView `json:"posts"`
	Cursor string     `json:"cursor"`
}

type postView struct {
	URI    string     `json:"uri"`
	CID    string     `json:"cid"`
	Author actorView  `json:"author"`
	Record postRecord `json:"record"`
}

type postRecord struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type followersResponse struct {
	Followers []actorView `json:"followers"`
	Cursor    string      `json:"cursor"`
}

type followsResponse struct {
	Follows []actorView `json:"follows"`
	Cursor  string      `json:"cursor"`
}

type authorFeedResponse struct {
	Feed   []feedItem `json:"feed"`
	Cursor string     `json:"cursor"`
}

type feedItem struct {
	Post   postView        `json:"post"`
	Reason *feedItemReason `json:"reason,omitempty"`
}

type feedItemReason struct {
	Type string `json:"$type"`
}
