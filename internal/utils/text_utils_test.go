package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	tests := []struct {
		name     string
		input    string
		maxChars int
		expected string
	}{
		{"short text untouched", "hello", 10, "hello"},
		{"exact length untouched", "hello", 5, "hello"},
		{"long text truncated", "hello world", 5, "hello" + Ellipsis},
		{"zero limit untouched", "hello", 0, "hello"},
		{"multibyte counted as characters", "héllo wörld", 5, "héllo" + Ellipsis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tp.TruncateText(tt.input, tt.maxChars))
		})
	}
}

func TestTruncateTextNeverSplitsRunes(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	input := strings.Repeat("日", 100)

	out := tp.TruncateText(input, 10)

	assert.Equal(t, strings.Repeat("日", 10)+Ellipsis, out)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "clean", tp.SanitizeUTF8("clean"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "héllo", tp.SanitizeUTF8("héllo"))
}
