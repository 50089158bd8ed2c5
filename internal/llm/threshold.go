package llm

import "github.com/matthewdeanmartin/bluesky-finder/internal/types"

// Thresholds map an overall score to a verdict label.
// Precondition: Match > Maybe. The classifier does not enforce this; config
// validation does.
type Thresholds struct {
	Match float64
	Maybe float64
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Match: 0.75, Maybe: 0.50}
}

// LabelForScore classifies an overall score against the thresholds.
func LabelForScore(overall float64, t Thresholds) types.Label {
	switch {
	case overall >= t.Match:
		return types.LabelMatch
	case overall >= t.Maybe:
		return types.LabelMaybe
	default:
		return types.LabelNo
	}
}
