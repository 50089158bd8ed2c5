package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matthewdeanmartin/bluesky-finder/internal/types"
)

func TestLabelForScore(t *testing.T) {
	defaults := DefaultThresholds()

	tests := []struct {
		overall  float64
		expected types.Label
	}{
		{1.0, types.LabelMatch},
		{0.75, types.LabelMatch},
		{0.74, types.LabelMaybe},
		{0.50, types.LabelMaybe},
		{0.49, types.LabelNo},
		{0.0, types.LabelNo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LabelForScore(tt.overall, defaults), "overall=%v", tt.overall)
	}
}

func TestLabelForScore_CustomThresholds(t *testing.T) {
	custom := Thresholds{Match: 0.9, Maybe: 0.3}

	assert.Equal(t, types.LabelMaybe, LabelForScore(0.75, custom))
	assert.Equal(t, types.LabelMatch, LabelForScore(0.9, custom))
	assert.Equal(t, types.LabelNo, LabelForScore(0.29, custom))
}
