package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks model output with no extractable JSON object.
// The evaluation for that candidate is aborted; nothing is stored.
var ErrMalformedResponse = errors.New("no JSON object found in model response")

// ExtractJSONObject locates the JSON object embedded in raw model output,
// tolerating commentary before and after it. The substring from the first
// '{' to the last '}' (inclusive) is taken as the candidate JSON text.
func ExtractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: %q", ErrMalformedResponse, truncateForError(raw))
	}

	return raw[start : end+1], nil
}

func truncateForError(s string) string {
	const max = 80
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
