package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Stopwords removed",
			input:    "Why are my tomato leaves turning yellow?",
			expected: []string{"tomato", "leaves", "turning", "yellow"},
		},
		{
			name:     "Lowercased and order preserved",
			input:    "Wheat RUST treatment for Wheat crop",
			expected: []string{"wheat", "rust", "treatment", "crop"},
		},
		{
			name:     "Punctuation is a separator",
			input:    "drip-irrigation, yield: paddy!",
			expected: []string{"drip", "irrigation", "yield", "paddy"},
		},
		{
			name:     "Empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "Only stopwords",
			input:    "what is this and that",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.input))
		})
	}
}

func TestExtractJoined(t *testing.T) {
	joined := ExtractJoined("How to control pest attack on cotton crop?")
	assert.Equal(t, "control,pest,attack,cotton,crop", joined)

	assert.Equal(t, "", ExtractJoined(""))
}

func TestExtractIdempotent(t *testing.T) {
	inputs := []string{
		"Why are my tomato leaves turning yellow?",
		"best fertilizer for sugarcane in black soil",
		"Paddy seedlings wilting after transplant, урожай failing",
	}
	for _, in := range inputs {
		first := ExtractJoined(in)
		second := ExtractJoined(first)
		assert.Equal(t, first, second, "re-extraction of %q changed output", in)
	}
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"tomato", "blight"}, Split("tomato,blight"))
	assert.Equal(t, []string{"a", "b"}, Split(" a , b ,"))
	assert.Nil(t, Split(""))
}
