package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

// fakeClient returns a canned response (or error) for every prompt.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Model() string { return "fake-model" }
func (f *fakeClient) Close() error  { return nil }

func sampleInput() EvalInput {
	return EvalInput{
		Handle: "alice.bsky.social",
		Bio:    "Software engineer in Arlington, VA",
		Posts: []EvalPost{
			{Text: "Shipping Go services all week", CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		},
	}
}

func TestEvaluator_Evaluate(t *testing.T) {
	client := &fakeClient{response: `Here you go:
{"score_location": 0.9, "score_tech": 0.85, "score_overall": 0.85, "label": "match",
 "rationale": "bio says Arlington", "evidence": ["Arlington in bio"], "uncertainties": []}
Let me know if you need anything else.`}

	ev := NewEvaluator(client, DefaultNormalizeOptions())
	got, err := ev.Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "fake-model", got.Model)
	assert.Equal(t, types.LabelMatch, got.Label)
	assert.InDelta(t, 0.9, got.ScoreLocation, 1e-9)
	assert.InDelta(t, 0.85, got.ScoreOverall, 1e-9)
	assert.Equal(t, "bio says Arlington", got.Rationale)
	assert.Equal(t, []string{"Arlington in bio"}, got.Evidence)
	assert.Empty(t, got.Uncertainties)
}

func TestEvaluator_Evaluate_MessyPayloadIsNormalized(t *testing.T) {
	// Alias keys and a percent-string score still come out schema-valid.
	client := &fakeClient{response: `{"location_confidence": "90%", "tech_score": 0.8, "is_dc_tech": "yes", "reasoning": "DMV tech"}`}

	ev := NewEvaluator(client, DefaultNormalizeOptions())
	got, err := ev.Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.InDelta(t, 0.9, got.ScoreLocation, 1e-9)
	assert.InDelta(t, 0.8, got.ScoreTech, 1e-9)
	assert.InDelta(t, 0.8, got.ScoreOverall, 1e-9)
	assert.Equal(t, types.LabelMatch, got.Label)
	assert.Equal(t, "DMV tech", got.Rationale)
}

func TestEvaluator_Evaluate_ModelError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}

	ev := NewEvaluator(client, DefaultNormalizeOptions())
	_, err := ev.Evaluate(context.Background(), sampleInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model call failed")
}

func TestEvaluator_Evaluate_MalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "no json object", response: "I cannot answer that."},
		{name: "broken json inside braces", response: `{"label": "match",}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{response: tt.response}
			ev := NewEvaluator(client, DefaultNormalizeOptions())
			_, err := ev.Evaluate(context.Background(), sampleInput())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse))
		})
	}
}

func TestEvaluator_Evaluate_PromptIncludesCandidate(t *testing.T) {
	client := &fakeClient{response: `{"is_dc_tech": "no"}`}

	ev := NewEvaluator(client, DefaultNormalizeOptions())
	_, err := ev.Evaluate(context.Background(), sampleInput())
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "alice.bsky.social")
	assert.Contains(t, client.prompts[0], "Arlington")
	assert.Contains(t, client.prompts[0], "Shipping Go services")
}
