// Package bsky implements a thin client for the public Bluesky XRPC API.
// Every discovery and fetch method degrades gracefully: a transport failure
// is logged and surfaces as an empty result, never as an error, so a failed
// fetch is indistinguishable from "nothing there". Callers that must react
// to failure (none today) would need a different contract.
package bsky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// pageSize is the per-request cap accepted by the paginated XRPC endpoints.
const pageSize = 100

// Client talks to a Bluesky PDS over XRPC with an app-password session.
type Client struct {
	host       string
	httpClient *http.Client
	accessJwt  string
	log        zerolog.Logger
}

// Dial opens an app-password session against host and returns an
// authenticated client. Unlike the fetch methods, session creation fails
// loudly: without a session nothing else can work.
func Dial(ctx context.Context, host, identifier, password string, log zerolog.Logger) (*Client, error) {
	c := &Client{
		host:       host,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}

	body, err := json.Marshal(sessionRequest{Identifier: identifier, Password: password})
	if err != nil {
		return nil, fmt.Errorf("bsky: marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.host+"/xrpc/com.atproto.server.createSession", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bsky: build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bsky: create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("bsky: create session: status %d: %s", resp.StatusCode, snippet)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("bsky: decode session: %w", err)
	}

	c.accessJwt = session.AccessJwt
	c.log.Info().Str("handle", session.Handle).Msg("bsky session opened")
	return c, nil
}

// SearchPosts returns the authors of posts matching query, up to limit.
// Empty on failure.
func (c *Client) SearchPosts(ctx context.Context, query string, limit int) []Actor {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(clampPage(limit)))

	var resp searchPostsResponse
	if err := c.get(ctx, "app.bsky.feed.searchPosts", params, &resp); err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("post search failed")
		return nil
	}

	actors := make([]Actor, 0, len(resp.Posts))
	for _, post := range resp.Posts {
		actors = append(actors, Actor{DID: post.Author.DID, Handle: post.Author.Handle})
		if len(actors) >= limit {
			break
		}
	}
	return actors
}

// GetFollowers pages through the followers of handle, capped at limit.
// Empty on failure; a partial page collected before a mid-pagination failure
// is returned as-is.
func (c *Client) GetFollowers(ctx context.Context, handle string, limit int) []Actor {
	return c.paginate(ctx, "app.bsky.graph.getFollowers", handle, limit, func(data []byte) ([]actorView, string, error) {
		var resp followersResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, "", err
		}
		return resp.Followers, resp.Cursor, nil
	})
}

// GetFollowing pages through the accounts handle follows, capped at limit.
func (c *Client) GetFollowing(ctx context.Context, handle string, limit int) []Actor {
	return c.paginate(ctx, "app.bsky.graph.getFollows", handle, limit, func(data []byte) ([]actorView, string, error) {
		var resp followsResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, "", err
		}
		return resp.Follows, resp.Cursor, nil
	})
}

// GetProfile fetches the public profile for a DID. Nil on failure.
func (c *Client) GetProfile(ctx context.Context, did string) *Profile {
	params := url.Values{}
	params.Set("actor", did)

	var view actorView
	if err := c.get(ctx, "app.bsky.actor.getProfile", params, &view); err != nil {
		c.log.Warn().Err(err).Str("did", did).Msg("profile fetch failed")
		return nil
	}

	return &Profile{
		DID:         view.DID,
		Handle:      view.Handle,
		DisplayName: view.DisplayName,
		Description: view.Description,
		AvatarURL:   view.Avatar,
	}
}

// GetAuthorFeed returns the candidate's recent authored posts, replies
// included, pure reposts excluded. Empty on failure.
func (c *Client) GetAuthorFeed(ctx context.Context, did string, limit int) []Post {
	params := url.Values{}
	params.Set("actor", did)
	params.Set("limit", strconv.Itoa(clampPage(limit)))
	params.Set("filter", "posts_with_replies")

	var resp authorFeedResponse
	if err := c.get(ctx, "app.bsky.feed.getAuthorFeed", params, &resp); err != nil {
		c.log.Warn().Err(err).Str("did", did).Msg("feed fetch failed")
		return nil
	}

	posts := make([]Post, 0, len(resp.Feed))
	for _, item := range resp.Feed {
		if item.Reason != nil {
			// A reason marks a repost surfaced into the feed; skip it.
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, item.Post.Record.CreatedAt)
		if err != nil {
			createdAt = time.Now().UTC()
		}
		posts = append(posts, Post{
			URI:       item.Post.URI,
			CID:       item.Post.CID,
			AuthorDID: item.Post.Author.DID,
			CreatedAt: createdAt,
			Text:      item.Post.Record.Text,
		})
		if len(posts) >= limit {
			break
		}
	}
	return posts
}

func (c *Client) paginate(ctx context.Context, method, handle string, limit int, decode func([]byte) ([]actorView, string, error)) []Actor {
	var actors []Actor
	cursor := ""
	for len(actors) < limit {
		params := url.Values{}
		params.Set("actor", handle)
		params.Set("limit", strconv.Itoa(clampPage(limit-len(actors))))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		raw, err := c.getRaw(ctx, method, params)
		if err != nil {
			c.log.Warn().Err(err).Str("method", method).Str("actor", handle).Msg("graph fetch failed")
			return actors
		}

		views, next, err := decode(raw)
		if err != nil {
			c.log.Warn().Err(err).Str("method", method).Msg("graph response decode failed")
			return actors
		}
		for _, v := range views {
			actors = append(actors, Actor{DID: v.DID, Handle: v.Handle})
			if len(actors) >= limit {
				return actors
			}
		}
		if next == "" || len(views) == 0 {
			break
		}
		cursor = next
	}
	return actors
}

func (c *Client) get(ctx context.Context, method string, params url.Values, out any) error {
	raw, err := c.getRaw(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

func (c *Client) getRaw(ctx context.Context, method string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/xrpc/%s?%s", c.host, method, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	if c.accessJwt != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessJwt)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, truncate(body, 256))
	}
	return body, nil
}

func clampPage(n int) int {
	if n > pageSize {
		return pageSize
	}
	if n < 1 {
		return 1
	}
	return n
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
