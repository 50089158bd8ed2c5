package export

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewdeanmartin/bluesky-finder/internal/llm"
	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

func testCandidates() []types.Candidate {
	return []types.Candidate{
		{
			DID:              "did:plc:match",
			Handle:           "match.bsky.social",
			DiscoverySources: []types.DiscoverySource{types.SourceHashtag},
			Profile: &types.Profile{
				Handle:      "match.bsky.social",
				DisplayName: "Match Person",
				Description: "Platform engineer in DC",
				AvatarURL:   "https://cdn.example/match.jpg",
			},
			Evaluation: &types.Evaluation{
				ScoreLocation: 0.9,
				ScoreTech:     0.9,
				ScoreOverall:  0.9,
				Label:         types.LabelMatch,
				Rationale:     "bio says DC",
			},
		},
		{
			DID:              "did:plc:maybe",
			Handle:           "maybe.bsky.social",
			DiscoverySources: []types.DiscoverySource{types.SourceAnchorFollow},
			Evaluation: &types.Evaluation{
				ScoreLocation: 0.5,
				ScoreTech:     0.8,
				ScoreOverall:  0.6,
				Label:         types.LabelMaybe,
				Rationale:     "tech clear, location unclear",
			},
		},
		{
			DID:    "did:plc:below",
			Handle: "below.bsky.social",
			Evaluation: &types.Evaluation{
				ScoreOverall: 0.3,
				Label:        types.LabelNo,
			},
		},
		{
			DID:    "did:plc:unscored",
			Handle: "unscored.bsky.social",
		},
	}
}

func TestBuildRows_FiltersAndSorts(t *testing.T) {
	rows := BuildRows(testCandidates(), 0.5)

	require.Len(t, rows, 2)
	assert.Equal(t, "did:plc:match", rows[0].DID)
	assert.Equal(t, "did:plc:maybe", rows[1].DID)

	assert.Equal(t, "Match Person", rows[0].DisplayName)
	assert.Equal(t, "Platform engineer in DC", rows[0].Bio)
	assert.Equal(t, "https://bsky.app/profile/match.bsky.social", rows[0].ProfileURL)

	// No profile: the handle doubles as the display name, bio stays empty.
	assert.Equal(t, "maybe.bsky.social", rows[1].DisplayName)
	assert.Empty(t, rows[1].Bio)
}

func TestBuildRows_ThresholdBoundaryInclusive(t *testing.T) {
	cands := []types.Candidate{{
		DID:        "did:plc:edge",
		Handle:     "edge.bsky.social",
		Evaluation: &types.Evaluation{ScoreOverall: 0.5, Label: types.LabelMaybe},
	}}

	rows := BuildRows(cands, 0.5)
	require.Len(t, rows, 1)
}

func TestExport_JSONL(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, llm.Thresholds{Match: 0.75, Maybe: 0.5})
	e.SetNow(func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) })

	path, count, err := e.Export(testCandidates(), FormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export_20240615.jsonl"), path)
	assert.Equal(t, 2, count)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var rows []Row
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var row Row
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		rows = append(rows, row)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, rows, 2)
	assert.Equal(t, "match.bsky.social", rows[0].Handle)
	assert.Equal(t, "match", rows[0].Label)
	assert.InDelta(t, 0.9, rows[0].Score, 1e-9)
	assert.Equal(t, []types.DiscoverySource{types.SourceHashtag}, rows[0].DiscoverySources)
}

func TestExport_HTML(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, llm.Thresholds{Match: 0.75, Maybe: 0.5})
	e.SetNow(func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) })

	path, count, err := e.Export(testCandidates(), FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export_20240615.html"), path)
	assert.Equal(t, 2, count)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	html := string(content)
	assert.Contains(t, html, "match.bsky.social")
	assert.Contains(t, html, "Match Person")
	assert.Contains(t, html, "bio says DC")
	assert.NotContains(t, html, "below.bsky.social")
}

func TestExport_UnknownFormat(t *testing.T) {
	e := New(t.TempDir(), llm.Thresholds{Match: 0.75, Maybe: 0.5})

	_, _, err := e.Export(testCandidates(), "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestExport_EmptyInputStillWritesFile(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, llm.Thresholds{Match: 0.75, Maybe: 0.5})
	e.SetNow(func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) })

	path, count, err := e.Export(nil, FormatJSONL)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
