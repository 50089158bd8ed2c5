package types

import "time"

// Label is the categorical verdict derived from the LLM scores.
type Label string

// Verdict labels, strongest first.
const (
	LabelMatch Label = "match"
	LabelMaybe Label = "maybe"
	LabelNo    Label = "no"
)

// ParseLabel returns the Label for s if it is one of the known verdicts.
func ParseLabel(s string) (Label, bool) {
	switch Label(s) {
	case LabelMatch, LabelMaybe, LabelNo:
		return Label(s), true
	}
	return "", false
}

// Evaluation is the scored verdict for a candidate. At most one exists per
// candidate; re-evaluation replaces the whole record.
type Evaluation struct {
	DID           string    `json:"did"`
	Model         string    `json:"model"`
	RunAt         time.Time `json:"run_at"`
	ScoreLocation float64   `json:"score_location"`
	ScoreTech     float64   `json:"score_tech"`
	ScoreOverall  float64   `json:"score_overall"`
	Label         Label     `json:"label"`
	Rationale     string    `json:"rationale"`
	Evidence      []string  `json:"evidence"`
	Uncertainties []string  `json:"uncertainties"`
}
