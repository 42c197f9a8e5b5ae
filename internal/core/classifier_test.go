package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score    int
		expected RiskLevel
	}{
		{0, RiskSafe},
		{15, RiskSafe},
		{29, RiskSafe},
		{30, RiskWarning},
		{50, RiskWarning},
		{69, RiskWarning},
		{70, RiskDangerous},
		{85, RiskDangerous},
		{100, RiskDangerous},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.score), "score %d", tt.score)
	}
}
