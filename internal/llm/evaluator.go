package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matthewdeanmartin/bluesky-finder/internal/schemas"
	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

// Evaluator runs one candidate through the model and the normalization
// layer, producing a schema-valid Evaluation.
type Evaluator struct {
	client Client
	opts   NormalizeOptions
}

// NewEvaluator wires a model client to the normalizer.
func NewEvaluator(client Client, opts NormalizeOptions) *Evaluator {
	return &Evaluator{client: client, opts: opts}
}

// Model returns the provider model identifier recorded on evaluations.
func (e *Evaluator) Model() string {
	return e.client.Model()
}

// Evaluate scores a single candidate. Any failure — transport, malformed
// output, schema violation — aborts just this candidate's evaluation; the
// caller logs and moves on.
func (e *Evaluator) Evaluate(ctx context.Context, in EvalInput) (*types.Evaluation, error) {
	raw, err := e.client.GenerateJSON(ctx, BuildPrompt(in))
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	extracted, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(extracted), &data); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedResponse, err)
	}

	normalized := Normalize(data, e.opts)

	payload, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("marshal normalized payload: %w", err)
	}
	if err := schemas.ValidateEvaluation(payload); err != nil {
		return nil, err
	}

	var eval types.Evaluation
	if err := json.Unmarshal(payload, &eval); err != nil {
		return nil, fmt.Errorf("decode normalized payload: %w", err)
	}
	eval.Model = e.client.Model()
	return &eval, nil
}
