// Package schemas validates normalized evaluation payloads against the
// strict evaluation JSON Schema before they are persisted.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// evaluationSchema is the contract every normalized model response must
// satisfy. The normalizer's fallbacks should make violations impossible, but
// the validator enforces it regardless.
const evaluationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Evaluation",
  "type": "object",
  "required": ["score_location", "score_tech", "score_overall", "label", "rationale", "evidence", "uncertainties"],
  "additionalProperties": false,
  "properties": {
    "score_location": {"type": "number", "minimum": 0, "maximum": 1},
    "score_tech": {"type": "number", "minimum": 0, "maximum": 1},
    "score_overall": {"type": "number", "minimum": 0, "maximum": 1},
    "label": {"type": "string", "enum": ["match", "maybe", "no"]},
    "rationale": {"type": "string"},
    "evidence": {"type": "array", "items": {"type": "string"}, "maxItems": 5},
    "uncertainties": {"type": "array", "items": {"type": "string"}, "maxItems": 3}
  }
}`

// ViolationError reports a payload that failed schema validation. The
// affected candidate's evaluation is aborted; nothing is stored.
type ViolationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (e *ViolationError) Error() string {
	var sb strings.Builder
	sb.WriteString("evaluation payload failed schema validation:\n")
	for i, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}

// ValidateEvaluation checks a normalized payload against the evaluation
// schema. Returns a *ViolationError when the payload does not conform.
func ValidateEvaluation(payload []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(evaluationSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violation := &ViolationError{}
	for _, desc := range result.Errors() {
		violation.Errors = append(violation.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return violation
}
