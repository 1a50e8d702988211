package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLanguageMismatch(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want bool
	}{
		{"latin vs hangul", "Through the Night", "밤편지", true},
		{"hangul vs latin", "밤편지", "Through the Night", true},
		{"both latin", "Sleep Well", "Sleep Well Piano", false},
		{"both hangul", "밤편지", "좋은 날", false},
		{"mixed script not flagged", "밤편지 Remix", "Through the Night", false},
		{"japanese vs latin", "夜に駆ける", "Racing into the Night", true},
		{"digits only", "1234", "밤편지", false},
		{"empty strings", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLanguageMismatch(tt.s1, tt.s2))
		})
	}
}
