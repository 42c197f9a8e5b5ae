package core

import (
	"fmt"
	"regexp"
	"strings"
)

// SignalKind tags a detection rule with the signal category it belongs to.
// Categories are evaluated in declaration order and their findings keep that
// order in EmailRecord.Threats.
type SignalKind int

const (
	// SignalKeyword matches a phishing keyword in the body or subject.
	SignalKeyword SignalKind = iota
	// SignalSenderTLD matches a suspicious top-level domain in the sender.
	SignalSenderTLD
	// SignalURLToken matches a suspicious token inside an extracted URL.
	SignalURLToken
	// SignalSensitivePhrase matches a request for sensitive data in the body.
	SignalSensitivePhrase
)

// SignalRule is one entry of the declarative rule table. Patterns holds the
// lowercase substrings the rule looks for; for most kinds a rule carries a
// single pattern, for SignalURLToken one rule carries the whole token set and
// fires once per URL that contains any of them.
type SignalRule struct {
	Kind     SignalKind
	Patterns []string
	Weight   int
	Message  string // fmt template, formatted with the matched pattern
}

// urlPattern extracts http/https URL tokens from a body.
var urlPattern = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")

// DefaultRules is the canonical rule table. Order matters: keyword rules
// first, then sender-TLD rules, then the URL rule, then sensitive-request
// phrases.
func DefaultRules() []SignalRule {
	rules := make([]SignalRule, 0, 22)

	for _, kw := range []string{
		"urgent", "immediately", "verify", "suspended", "limited",
		"confirm", "update payment", "click here", "act now", "expires",
	} {
		rules = append(rules, SignalRule{
			Kind:     SignalKeyword,
			Patterns: []string{kw},
			Weight:   10,
			Message:  "Suspicious keyword: '%s'",
		})
	}

	for _, tld := range []string{".biz", ".xyz", ".top", ".click", ".support"} {
		rules = append(rules, SignalRule{
			Kind:     SignalSenderTLD,
			Patterns: []string{tld},
			Weight:   15,
			Message:  "Suspicious TLD: %s",
		})
	}

	rules = append(rules, SignalRule{
		Kind:     SignalURLToken,
		Patterns: []string{"login", "verify", "secure", "update", "confirm"},
		Weight:   20,
		Message:  "Suspicious URL detected",
	})

	for _, phrase := range []string{
		"credit card", "ssn", "social security", "bank account", "password", "passport",
	} {
		rules = append(rules, SignalRule{
			Kind:     SignalSensitivePhrase,
			Patterns: []string{phrase},
			Weight:   25,
			Message:  "Requests sensitive data: %s",
		})
	}

	return rules
}

// RuleEngine evaluates a rule table against message fields. It is pure and
// safe for concurrent use.
type RuleEngine struct {
	rules []SignalRule
}

// NewRuleEngine creates an engine over the given rule table. Pass
// DefaultRules() for the canonical set.
func NewRuleEngine(rules []SignalRule) *RuleEngine {
	return &RuleEngine{rules: rules}
}

// Score evaluates every rule in table order and returns the accumulated risk
// score clamped to [0,100] together with the ordered findings. A keyword is
// counted once even when it appears in both body and subject; a flagged URL
// yields one finding per URL with no de-duplication.
func (e *RuleEngine) Score(body, subject, sender string) (int, []string) {
	lowerBody := strings.ToLower(body)
	lowerSubject := strings.ToLower(subject)
	lowerSender := strings.ToLower(sender)

	var urls []string
	urlsExtracted := false

	score := 0
	threats := []string{}

	for _, rule := range e.rules {
		switch rule.Kind {
		case SignalKeyword:
			kw := rule.Patterns[0]
			if strings.Contains(lowerBody, kw) || strings.Contains(lowerSubject, kw) {
				score += rule.Weight
				threats = append(threats, fmt.Sprintf(rule.Message, kw))
			}
		case SignalSenderTLD:
			tld := rule.Patterns[0]
			if strings.Contains(lowerSender, tld) {
				score += rule.Weight
				threats = append(threats, fmt.Sprintf(rule.Message, tld))
			}
		case SignalURLToken:
			if !urlsExtracted {
				urls = urlPattern.FindAllString(body, -1)
				urlsExtracted = true
			}
			for _, u := range urls {
				lowerURL := strings.ToLower(u)
				for _, token := range rule.Patterns {
					if strings.Contains(lowerURL, token) {
						score += rule.Weight
						threats = append(threats, rule.Message)
						break
					}
				}
			}
		case SignalSensitivePhrase:
			phrase := rule.Patterns[0]
			if strings.Contains(lowerBody, phrase) {
				score += rule.Weight
				threats = append(threats, fmt.Sprintf(rule.Message, phrase))
			}
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, threats
}
