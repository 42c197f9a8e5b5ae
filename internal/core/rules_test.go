package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreCleanEmail(t *testing.T) {
	engine := NewRuleEngine(DefaultRules())

	score, threats := engine.Score(
		"Hi team, lunch is at noon on Friday. See you there.",
		"Team lunch",
		"alice@example.com",
	)

	assert.Equal(t, 0, score)
	assert.Empty(t, threats)
}

func TestScoreKeywords(t *testing.T) {
	engine := NewRuleEngine(DefaultRules())

	tests := []struct {
		name            string
		body            string
		subject         string
		expectedScore   int
		expectedThreats []string
	}{
		{
			name:          "two keywords in body",
			body:          "This is urgent, please verify your account details.",
			subject:       "Account notice",
			expectedScore: 20,
			expectedThreats: []string{
				"Suspicious keyword: 'urgent'",
				"Suspicious keyword: 'verify'",
			},
		},
		{
			name:          "keyword in subject only",
			body:          "Your account needs attention.",
			subject:       "Account suspended",
			expectedScore: 10,
			expectedThreats: []string{
				"Suspicious keyword: 'suspended'",
			},
		},
		{
			name:          "same keyword in body and subject counted once",
			body:          "This is urgent.",
			subject:       "Urgent notice",
			expectedScore: 10,
			expectedThreats: []string{
				"Suspicious keyword: 'urgent'",
			},
		},
		{
			name:          "keyword matching is case insensitive",
			body:          "ACT NOW before it is too late",
			subject:       "Offer",
			expectedScore: 10,
			expectedThreats: []string{
				"Suspicious keyword: 'act now'",
			},
		},
		{
			name:          "multi-word keyword",
			body:          "Please update payment information on file.",
			subject:       "Billing",
			expectedScore: 10,
			expectedThreats: []string{
				"Suspicious keyword: 'update payment'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, threats := engine.Score(tt.body, tt.subject, "alice@example.com")
			assert.Equal(t, tt.expectedScore, score)
			assert.Equal(t, tt.expectedThreats, threats)
		})
	}
}

func TestScoreSenderTLD(t *testing.T) {
	engine := NewRuleEngine(DefaultRules())

	score, threats := engine.Score(
		"Check out our current offers.",
		"Deals",
		"promo@deals.biz",
	)

	assert.Equal(t, 15, score)
	assert.Equal(t, []string{"Suspicious TLD: .biz"}, threats)
}

func TestScoreURLs(t *testing.T) {
	engine := NewRuleEngine(DefaultRules())

	tests := []struct {
		name          string
		body          string
		expectedScore int
		expectedHits  int
	}{
		{
			name:          "one flagged URL",
			body:          "Go to https://evil.example/login to continue.",
			expectedScore: 20,
			expectedHits:  1,
		},
		{
			name:          "each flagged URL counts separately",
			body:          "First https://a.example/login then https://b.example/verify-account now.",
			expectedScore: 50, // 2 URLs at 20 plus the 'verify' keyword in the second URL's text
			expectedHits:  2,
		},
		{
			name:          "multiple tokens in one URL count once",
			body:          "See https://evil.example/secure/update-info for details.",
			expectedScore: 20,
			expectedHits:  1,
		},
		{
			name:          "URL without flagged tokens",
			body:          "Docs at https://example.com/handbook for reference.",
			expectedScore: 0,
			expectedHits:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, threats := engine.Score(tt.body, "", "alice@example.com")
			assert.Equal(t, tt.expectedScore, score)

			hits := 0
			for _, threat := range threats {
				if threat == "Suspicious URL detected" {
					hits++
				}
			}
			assert.Equal(t, tt.expectedHits, hits)
		})
	}
}

func TestScoreSensitivePhrases(t *testing.T) {
	engine := NewRuleEngine(DefaultRules())

	score, threats := engine.Score(
		"Please reply with your credit card number and bank account details.",
		"Payment",
		"alice@example.com",
	)

	assert.Equal(t, 50, score)
	assert.Equal(t, []string{
		"Requests sensitive data: credit card",
		"Requests sensitive data: bank account",
	}, threats)
}

func TestScoreClampedAtHundred(t *testing.T) {
	engine := NewRuleEngine(DefaultRules())

	body := "urgent immediately verify suspended limited confirm " +
		"update payment click here act now expires " +
		"credit card ssn social security bank account password passport"

	score, threats := engine.Score(body, "", "scam@fraud.xyz")

	assert.Equal(t, 100, score)
	assert.Greater(t, len(threats), 10)
}

func TestScoreFindingOrder(t *testing.T) {
	engine := NewRuleEngine(DefaultRules())

	body := "Your password expires today, verify at https://evil.example/login now."
	score, threats := engine.Score(body, "", "support@alerts.click")

	// Keyword findings first, then the sender TLD, then URLs, then phrases.
	assert.Equal(t, []string{
		"Suspicious keyword: 'verify'",
		"Suspicious keyword: 'expires'",
		"Suspicious TLD: .click",
		"Suspicious URL detected",
		"Requests sensitive data: password",
	}, threats)
	assert.Equal(t, 80, score)
}

func TestScoreIgnoresSubjectURLs(t *testing.T) {
	engine := NewRuleEngine(DefaultRules())

	score, threats := engine.Score(
		"Nothing to see in the body.",
		"https://evil.example/login",
		"alice@example.com",
	)

	for _, threat := range threats {
		assert.False(t, strings.Contains(threat, "URL"), "subject URLs must not be flagged")
	}
	assert.Equal(t, 0, score)
}
