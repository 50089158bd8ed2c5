package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

type candidateRow struct {
	DID          string    `db:"did"`
	Handle       string    `db:"handle"`
	Sources      string    `db:"discovery_sources"`
	DiscoveredAt time.Time `db:"discovered_at"`
}

type profileRow struct {
	DID         string    `db:"did"`
	Handle      string    `db:"handle"`
	DisplayName string    `db:"display_name"`
	Description string    `db:"description"`
	AvatarURL   string    `db:"avatar_url"`
	FetchedAt   time.Time `db:"fetched_at"`
}

type postRow struct {
	URI       string    `db:"uri"`
	CID       string    `db:"cid"`
	AuthorDID string    `db:"author_did"`
	CreatedAt time.Time `db:"created_at"`
	Text      string    `db:"text"`
	IsRepost  bool      `db:"is_repost"`
}

type evaluationRow struct {
	DID           string    `db:"did"`
	Model         string    `db:"model"`
	RunAt         time.Time `db:"run_at"`
	ScoreLocation float64   `db:"score_location"`
	ScoreTech     float64   `db:"score_tech"`
	ScoreOverall  float64   `db:"score_overall"`
	Label         string    `db:"label"`
	Rationale     string    `db:"rationale"`
	Evidence      string    `db:"evidence"`
	Uncertainties string    `db:"uncertainties"`
}

// UpsertIdentity records a discovered identity. If the DID is unknown it
// creates the candidate with the single source tag and returns true. If the
// DID is already known it unions the source into the existing tag set
// (a no-op for an already-present tag) and returns false.
func (s *Store) UpsertIdentity(ctx context.Context, did, handle string, source types.DiscoverySource) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("store: begin upsert: %w", err)
	}
	defer tx.Rollback()

	var row candidateRow
	err = tx.GetContext(ctx, &row, `SELECT did, handle, discovery_sources, discovered_at FROM candidates WHERE did = ?`, did)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		sources, merr := json.Marshal([]types.DiscoverySource{source})
		if merr != nil {
			return false, fmt.Errorf("store: marshal sources: %w", merr)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO candidates (did, handle, discovery_sources, discovered_at) VALUES (?, ?, ?, ?)`,
			did, handle, string(sources), s.now().UTC(),
		); err != nil {
			return false, fmt.Errorf("store: insert candidate %s: %w", did, err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("store: commit upsert: %w", err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("store: lookup candidate %s: %w", did, err)
	}

	var sources []types.DiscoverySource
	if err := json.Unmarshal([]byte(row.Sources), &sources); err != nil {
		return false, fmt.Errorf("store: decode sources for %s: %w", did, err)
	}

	for _, existing := range sources {
		if existing == source {
			return false, tx.Commit()
		}
	}

	sources = append(sources, source)
	merged, err := json.Marshal(sources)
	if err != nil {
		return false, fmt.Errorf("store: marshal sources: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE candidates SET discovery_sources = ? WHERE did = ?`,
		string(merged), did,
	); err != nil {
		return false, fmt.Errorf("store: update sources for %s: %w", did, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("store: commit upsert: %w", err)
	}
	return false, nil
}

// GetCandidate loads a candidate and its owned profile, posts, and
// evaluation. Returns nil without error when the DID is unknown.
func (s *Store) GetCandidate(ctx context.Context, did string) (*types.Candidate, error) {
	var row candidateRow
	err := s.db.GetContext(ctx, &row, `SELECT did, handle, discovery_sources, discovered_at FROM candidates WHERE did = ?`, did)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get candidate %s: %w", did, err)
	}
	return s.hydrate(ctx, row)
}

// ListCandidates loads every candidate with its owned records, in discovery
// order.
func (s *Store) ListCandidates(ctx context.Context) ([]types.Candidate, error) {
	var rows []candidateRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT did, handle, discovery_sources, discovered_at FROM candidates ORDER BY discovered_at, did`,
	); err != nil {
		return nil, fmt.Errorf("store: list candidates: %w", err)
	}

	out := make([]types.Candidate, 0, len(rows))
	for _, row := range rows {
		cand, err := s.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, *cand)
	}
	return out, nil
}

// DeleteCandidate removes a candidate. The profile, posts, and evaluation
// rows go with it via the cascade rules.
func (s *Store) DeleteCandidate(ctx context.Context, did string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE did = ?`, did); err != nil {
		return fmt.Errorf("store: delete candidate %s: %w", did, err)
	}
	return nil
}

// ReplaceProfile swaps in a complete new profile record for the candidate
// and stamps it with the current time. The previous record, if any, is fully
// overwritten rather than field-merged.
func (s *Store) ReplaceProfile(ctx context.Context, did string, p types.Profile) error {
	fetchedAt := s.now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (did, handle, display_name, description, avatar_url, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(did) DO UPDATE SET
		   handle = excluded.handle,
		   display_name = excluded.display_name,
		   description = excluded.description,
		   avatar_url = excluded.avatar_url,
		   fetched_at = excluded.fetched_at`,
		did, p.Handle, p.DisplayName, p.Description, p.AvatarURL, fetchedAt,
	); err != nil {
		return fmt.Errorf("store: replace profile for %s: %w", did, err)
	}

	// Keep the candidate's handle in step with the freshest profile data.
	if p.Handle != "" {
		if _, err := s.db.ExecContext(ctx, `UPDATE candidates SET handle = ? WHERE did = ?`, p.Handle, did); err != nil {
			return fmt.Errorf("store: update handle for %s: %w", did, err)
		}
	}
	return nil
}

// ReplacePosts atomically replaces the candidate's entire post set with the
// given posts. Delete-then-insert in one transaction keeps deleted upstream
// posts from lingering, at the cost of long-term post history.
func (s *Store) ReplacePosts(ctx context.Context, did string, posts []types.Post) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin replace posts: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE author_did = ?`, did); err != nil {
		return fmt.Errorf("store: clear posts for %s: %w", did, err)
	}

	for _, p := range posts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO posts (uri, cid, author_did, created_at, text, is_repost) VALUES (?, ?, ?, ?, ?, ?)`,
			p.URI, p.CID, did, p.CreatedAt.UTC(), p.Text, p.IsRepost,
		); err != nil {
			return fmt.Errorf("store: insert post %s: %w", p.URI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit replace posts: %w", err)
	}
	return nil
}

// ReplaceEvaluation swaps in a complete new evaluation record for the
// candidate and stamps it with the current time.
func (s *Store) ReplaceEvaluation(ctx context.Context, did string, e types.Evaluation) error {
	evidence, err := json.Marshal(emptyIfNil(e.Evidence))
	if err != nil {
		return fmt.Errorf("store: marshal evidence: %w", err)
	}
	uncertainties, err := json.Marshal(emptyIfNil(e.Uncertainties))
	if err != nil {
		return fmt.Errorf("store: marshal uncertainties: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (did, model, run_at, score_location, score_tech, score_overall, label, rationale, evidence, uncertainties)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(did) DO UPDATE SET
		   model = excluded.model,
		   run_at = excluded.run_at,
		   score_location = excluded.score_location,
		   score_tech = excluded.score_tech,
		   score_overall = excluded.score_overall,
		   label = excluded.label,
		   rationale = excluded.rationale,
		   evidence = excluded.evidence,
		   uncertainties = excluded.uncertainties`,
		did, e.Model, s.now().UTC(), e.ScoreLocation, e.ScoreTech, e.ScoreOverall,
		string(e.Label), e.Rationale, string(evidence), string(uncertainties),
	); err != nil {
		return fmt.Errorf("store: replace evaluation for %s: %w", did, err)
	}
	return nil
}

func (s *Store) hydrate(ctx context.Context, row candidateRow) (*types.Candidate, error) {
	cand := &types.Candidate{
		DID:          row.DID,
		Handle:       row.Handle,
		DiscoveredAt: row.DiscoveredAt,
	}
	if err := json.Unmarshal([]byte(row.Sources), &cand.DiscoverySources); err != nil {
		return nil, fmt.Errorf("store: decode sources for %s: %w", row.DID, err)
	}

	var prow profileRow
	err := s.db.GetContext(ctx, &prow, `SELECT did, handle, display_name, description, avatar_url, fetched_at FROM profiles WHERE did = ?`, row.DID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: load profile for %s: %w", row.DID, err)
	}
	if err == nil {
		cand.Profile = &types.Profile{
			DID:         prow.DID,
			Handle:      prow.Handle,
			DisplayName: prow.DisplayName,
			Description: prow.Description,
			AvatarURL:   prow.AvatarURL,
			FetchedAt:   prow.FetchedAt,
		}
	}

	var postRows []postRow
	if err := s.db.SelectContext(ctx, &postRows,
		`SELECT uri, cid, author_did, created_at, text, is_repost FROM posts WHERE author_did = ? ORDER BY created_at DESC`, row.DID,
	); err != nil {
		return nil, fmt.Errorf("store: load posts for %s: %w", row.DID, err)
	}
	for _, pr := range postRows {
		cand.Posts = append(cand.Posts, types.Post{
			URI:       pr.URI,
			CID:       pr.CID,
			AuthorDID: pr.AuthorDID,
			CreatedAt: pr.CreatedAt,
			Text:      pr.Text,
			IsRepost:  pr.IsRepost,
		})
	}

	var erow evaluationRow
	err = s.db.GetContext(ctx, &erow,
		`SELECT did, model, run_at, score_location, score_tech, score_overall, label, rationale, evidence, uncertainties FROM evaluations WHERE did = ?`, row.DID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: load evaluation for %s: %w", row.DID, err)
	}
	if err == nil {
		eval := &types.Evaluation{
			DID:           erow.DID,
			Model:         erow.Model,
			RunAt:         erow.RunAt,
			ScoreLocation: erow.ScoreLocation,
			ScoreTech:     erow.ScoreTech,
			ScoreOverall:  erow.ScoreOverall,
			Label:         types.Label(erow.Label),
			Rationale:     erow.Rationale,
		}
		if err := json.Unmarshal([]byte(erow.Evidence), &eval.Evidence); err != nil {
			return nil, fmt.Errorf("store: decode evidence for %s: %w", row.DID, err)
		}
		if err := json.Unmarshal([]byte(erow.Uncertainties), &eval.Uncertainties); err != nil {
			return nil, fmt.Errorf("store: decode uncertainties for %s: %w", row.DID, err)
		}
		cand.Evaluation = eval
	}

	return cand, nil
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
