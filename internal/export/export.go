// Package export renders qualifying candidates to a timestamped output
// file. It is a pure projection of already-validated store data.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/matthewdeanmartin/bluesky-finder/internal/llm"
	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

// Supported output formats.
const (
	FormatJSONL = "jsonl"
	FormatHTML  = "html"
)

// Row is one exported candidate projection.
type Row struct {
	Handle           string                  `json:"handle"`
	DID              string                  `json:"did"`
	Score            float64                 `json:"score"`
	Label            string                  `json:"label"`
	LocationScore    float64                 `json:"location_score"`
	TechScore        float64                 `json:"tech_score"`
	Bio              string                  `json:"bio"`
	Rationale        string                  `json:"rationale"`
	ProfileURL       string                  `json:"profile_url"`
	AvatarURL        string                  `json:"avatar_url,omitempty"`
	DisplayName      string                  `json:"display_name"`
	DiscoverySources []types.DiscoverySource `json:"discovery_sources"`
}

// Exporter writes qualifying candidates to disk.
type Exporter struct {
	outDir     string
	thresholds llm.Thresholds
	now        func() time.Time
}

// New creates an Exporter writing into outDir.
func New(outDir string, thresholds llm.Thresholds) *Exporter {
	return &Exporter{outDir: outDir, thresholds: thresholds, now: time.Now}
}

// SetNow overrides the exporter's clock, which controls output filenames.
func (e *Exporter) SetNow(now func() time.Time) {
	e.now = now
}

// Export filters and projects candidates, writes exactly one file in the
// requested format, and returns the path and written count.
func (e *Exporter) Export(candidates []types.Candidate, format string) (string, int, error) {
	rows := BuildRows(candidates, e.thresholds.Maybe)
	stamp := e.now().UTC().Format("20060102")

	switch format {
	case FormatJSONL:
		path := filepath.Join(e.outDir, fmt.Sprintf("export_%s.jsonl", stamp))
		if err := writeJSONL(path, rows); err != nil {
			return "", 0, err
		}
		return path, len(rows), nil

	case FormatHTML:
		path := filepath.Join(e.outDir, fmt.Sprintf("export_%s.html", stamp))
		if err := e.writeHTML(path, rows); err != nil {
			return "", 0, err
		}
		return path, len(rows), nil

	default:
		return "", 0, fmt.Errorf("export: unknown format %q", format)
	}
}

// BuildRows projects candidates whose overall score clears the maybe
// threshold, sorted by overall score descending.
func BuildRows(candidates []types.Candidate, maybeThreshold float64) []Row {
	rows := make([]Row, 0, len(candidates))
	for _, c := range candidates {
		if c.Evaluation == nil || c.Evaluation.ScoreOverall < maybeThreshold {
			continue
		}

		row := Row{
			Handle:           c.Handle,
			DID:              c.DID,
			Score:            c.Evaluation.ScoreOverall,
			Label:            string(c.Evaluation.Label),
			LocationScore:    c.Evaluation.ScoreLocation,
			TechScore:        c.Evaluation.ScoreTech,
			Rationale:        c.Evaluation.Rationale,
			ProfileURL:       "https://bsky.app/profile/" + c.Handle,
			DisplayName:      c.Handle,
			DiscoverySources: c.DiscoverySources,
		}
		if c.Profile != nil {
			row.Bio = c.Profile.Description
			row.AvatarURL = c.Profile.AvatarURL
			if c.Profile.DisplayName != "" {
				row.DisplayName = c.Profile.DisplayName
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows
}

func writeJSONL(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("export: write row for %s: %w", row.DID, err)
		}
	}
	return f.Close()
}
