package core

// Score-to-level thresholds. These are fixed, not configuration: callers and
// stored records rely on scores and levels agreeing everywhere.
const (
	warningThreshold   = 30
	dangerousThreshold = 70
)

// Classify maps a risk score to its level: below 30 safe, below 70 warning,
// 70 and above dangerous.
func Classify(score int) RiskLevel {
	switch {
	case score < warningThreshold:
		return RiskSafe
	case score < dangerousThreshold:
		return RiskWarning
	default:
		return RiskDangerous
	}
}
