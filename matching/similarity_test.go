package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want float64
	}{
		{"identical", "sleep well", "sleep well", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "sleep well", "", 0.0},
		{"single edit", "sleep wall", "sleep well", 0.9},
		{"classic pair", "kitten", "sitting", 4.0 / 7.0},
		{"hangul runes", "밤편지", "밤편", 2.0 / 3.0},
		{"disjoint", "abc", "xyz", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.s1, tt.s2), 1e-9)
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	assert.Equal(t, Similarity("sleep well", "sleep wall"), Similarity("sleep wall", "sleep well"))
}

func TestContainsEither(t *testing.T) {
	assert.True(t, containsEither("sleep well", "sleep well piano"))
	assert.True(t, containsEither("sleep well piano", "sleep well"))
	assert.False(t, containsEither("sleep well", "blueming"))
	assert.False(t, containsEither("", "sleep well"))
	assert.False(t, containsEither("sleep well", ""))
}
