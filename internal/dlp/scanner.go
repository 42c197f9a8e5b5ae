package dlp

import (
	"regexp"

	"github.com/mikey/mail-sentry/internal/core"
)

// pattern is one independent sensitive-data check. Checks do not interact:
// any subset of them may fire on the same input.
type pattern struct {
	dataType core.SensitiveDataType
	re       *regexp.Regexp
	severity core.Severity
	counted  bool
}

// Scanner detects regulated and high-value data patterns in arbitrary text.
// It is pure and safe for concurrent use.
type Scanner struct {
	patterns []pattern
}

// New creates a scanner with the standard pattern set: major-issuer card
// numbers, email addresses, phone numbers, SSN/CNIC-style groupings and
// IBAN-like account numbers.
func New() *Scanner {
	return &Scanner{
		patterns: []pattern{
			{
				dataType: core.SensitiveCreditCard,
				re:       regexp.MustCompile(`\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13})\b`),
				severity: core.SeverityHigh,
			},
			{
				dataType: core.SensitiveEmailAddress,
				re:       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
				severity: core.SeverityMedium,
				counted:  true,
			},
			{
				dataType: core.SensitivePhoneNumber,
				re:       regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}\b`),
				severity: core.SeverityMedium,
			},
			{
				dataType: core.SensitiveSsnOrCnic,
				re:       regexp.MustCompile(`\b[0-9]{3}[-\s]?[0-9]{2}[-\s]?[0-9]{4}\b`),
				severity: core.SeverityCritical,
			},
			{
				dataType: core.SensitiveIban,
				re:       regexp.MustCompile(`\b[A-Z]{2}[0-9]{2}[A-Z0-9]{4}[0-9]{7}[A-Z0-9]{0,16}\b`),
				severity: core.SeverityHigh,
			},
		},
	}
}

// Scan runs every pattern against the text and returns one finding per
// pattern that matched, in pattern order. Counted patterns carry the number
// of matches. Pattern-free input yields an empty list.
func (s *Scanner) Scan(text string) []core.SensitiveFinding {
	findings := []core.SensitiveFinding{}
	if text == "" {
		return findings
	}

	for _, p := range s.patterns {
		if p.counted {
			matches := p.re.FindAllString(text, -1)
			if len(matches) > 0 {
				findings = append(findings, core.SensitiveFinding{
					Type:     p.dataType,
					Severity: p.severity,
					Count:    len(matches),
				})
			}
			continue
		}
		if p.re.MatchString(text) {
			findings = append(findings, core.SensitiveFinding{
				Type:     p.dataType,
				Severity: p.severity,
			})
		}
	}
	return findings
}
