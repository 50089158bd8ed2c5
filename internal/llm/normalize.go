package llm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

// Field alias tables, probed in order; earlier aliases win. Models drift on
// key names, so each canonical field accepts the variants seen in the wild.
var (
	locationAliases    = []string{"score_location", "location_score", "dc_location_score", "location_confidence"}
	techAliases        = []string{"score_tech", "tech_score", "tech_confidence", "profession_score"}
	overallAliases     = []string{"score_overall", "overall_score", "confidence", "overall_confidence"}
	verdictAliases     = []string{"label", "is_dc_tech", "is_dc_tech_professional", "is_dc_techie"}
	rationaleAliases   = []string{"rationale", "reasoning", "conclusion", "summary"}
	evidenceAliases    = []string{"evidence", "signals", "supporting_evidence"}
	uncertaintyAliases = []string{"uncertainties", "caveats", "unknowns"}
)

// Caps on the free-text list fields.
const (
	maxEvidence      = 5
	maxUncertainties = 3
)

// FallbackScores are the conservative defaults applied when a model emits
// only a boolean verdict with no scores. Heuristic values; overridable
// rather than baked in.
type FallbackScores struct {
	MatchLocation float64
	MatchTech     float64
	MaybeLocation float64
	MaybeTech     float64
	NoLocation    float64
	NoTech        float64
}

// DefaultFallbackScores returns the stock verdict-only defaults.
func DefaultFallbackScores() FallbackScores {
	return FallbackScores{
		MatchLocation: 0.8, MatchTech: 0.8,
		MaybeLocation: 0.5, MaybeTech: 0.7,
		NoLocation: 0.2, NoTech: 0.2,
	}
}

// NormalizeOptions configures the normalization pass.
type NormalizeOptions struct {
	Thresholds Thresholds
	Fallbacks  FallbackScores
}

// DefaultNormalizeOptions returns stock thresholds and fallbacks.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		Thresholds: DefaultThresholds(),
		Fallbacks:  DefaultFallbackScores(),
	}
}

// Normalize coerces an arbitrary decoded model response into the exact
// evaluation payload shape: three scores in [0,1], a label, a rationale, and
// the two capped string lists.
func Normalize(data map[string]any, opts NormalizeOptions) map[string]any {
	loc, _ := firstPresent(data, locationAliases)
	tech, _ := firstPresent(data, techAliases)
	overall, _ := firstPresent(data, overallAliases)
	verdict, hasVerdict := firstPresent(data, verdictAliases)

	scoreLocation := ToUnitInterval(loc)
	scoreTech := ToUnitInterval(tech)

	// Some models emit only a boolean verdict with no scores; substitute
	// conservative defaults keyed off the verdict text.
	if scoreLocation == 0.0 && scoreTech == 0.0 && hasVerdict {
		switch verdictText(verdict) {
		case "yes", "true", "match":
			scoreLocation, scoreTech = opts.Fallbacks.MatchLocation, opts.Fallbacks.MatchTech
		case "maybe":
			scoreLocation, scoreTech = opts.Fallbacks.MaybeLocation, opts.Fallbacks.MaybeTech
		default:
			scoreLocation, scoreTech = opts.Fallbacks.NoLocation, opts.Fallbacks.NoTech
		}
	}

	scoreOverall := ToUnitInterval(overall)
	if scoreOverall == 0.0 {
		// Strict on both: a missing overall is the weaker of the two.
		scoreOverall = min(scoreLocation, scoreTech)
	}

	label := resolveLabel(data, verdict, hasVerdict, scoreOverall, opts.Thresholds)

	rationale, _ := firstPresent(data, rationaleAliases)
	evidence, _ := firstPresent(data, evidenceAliases)
	uncertainties, _ := firstPresent(data, uncertaintyAliases)

	return map[string]any{
		"score_location": scoreLocation,
		"score_tech":     scoreTech,
		"score_overall":  scoreOverall,
		"label":          label,
		"rationale":      stringify(rationale),
		"evidence":       normalizeList(evidence, maxEvidence),
		"uncertainties":  normalizeList(uncertainties, maxUncertainties),
	}
}

// ToUnitInterval converts an arbitrary JSON value to a float in [0,1].
// Percent strings divide by 100; yes/no strings map to 1/0; anything
// unparseable collapses to 0.
func ToUnitInterval(v any) float64 {
	var out float64
	switch x := v.(type) {
	case nil:
		out = 0.0
	case bool:
		if x {
			out = 1.0
		}
	case float64:
		out = x
	case int:
		out = float64(x)
	case string:
		s := strings.ToLower(strings.TrimSpace(x))
		switch {
		case strings.HasSuffix(s, "%"):
			parsed, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err == nil {
				out = parsed / 100.0
			}
		case s == "true" || s == "yes" || s == "y":
			out = 1.0
		case s == "false" || s == "no" || s == "n":
			out = 0.0
		default:
			parsed, err := strconv.ParseFloat(s, 64)
			if err == nil {
				out = parsed
			}
		}
	}

	if out < 0.0 {
		return 0.0
	}
	if out > 1.0 {
		return 1.0
	}
	return out
}

// resolveLabel picks the final label: an explicit valid label field wins,
// then a verdict translation, then pure threshold classification.
func resolveLabel(data map[string]any, verdict any, hasVerdict bool, overall float64, t Thresholds) string {
	if explicit, ok := data["label"].(string); ok {
		if label, valid := types.ParseLabel(strings.ToLower(strings.TrimSpace(explicit))); valid {
			return string(label)
		}
	}

	if hasVerdict {
		switch verdictText(verdict) {
		case "yes", "true", "match":
			if overall >= t.Match {
				return "match"
			}
			return "maybe"
		case "maybe":
			return "maybe"
		default:
			return "no"
		}
	}

	return string(LabelForScore(overall, t))
}

// firstPresent probes keys in order and returns the first non-null value.
// A key holding JSON null counts as absent.
func firstPresent(data map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := data[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func verdictText(v any) string {
	return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", v)))
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// normalizeList coerces a value into a capped string list: a bare string
// wraps into a single-element list, a non-list becomes empty.
func normalizeList(v any, limit int) []string {
	var items []any
	switch x := v.(type) {
	case string:
		items = []any{x}
	case []any:
		items = x
	case []string:
		for _, s := range x {
			items = append(items, s)
		}
	default:
		return []string{}
	}

	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringify(item))
	}
	return out
}
