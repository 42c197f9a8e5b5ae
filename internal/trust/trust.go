package trust

import (
	"strings"

	"go.uber.org/zap"
)

// List holds the sender domains the operator vouches for. A trusted domain
// does not bypass scoring; it only pins the sender's reputation at the
// maximum so past sightings never drag it down.
type List struct {
	domains []string
	logger  *zap.Logger
}

// NewList creates a trusted-domain list. Domains are normalized to lowercase.
func NewList(domains []string, logger *zap.Logger) *List {
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		d := strings.ToLower(strings.TrimSpace(domain))
		if d != "" {
			normalized = append(normalized, d)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Loaded trusted domains", zap.Strings("domains", normalized))
	}

	return &List{
		domains: normalized,
		logger:  logger,
	}
}

// Contains reports whether the sender address belongs to a trusted domain.
// Sender strings that do not look like addresses are never trusted.
func (l *List) Contains(sender string) bool {
	if len(l.domains) == 0 {
		return false
	}

	at := strings.LastIndex(sender, "@")
	if at < 0 || at == len(sender)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(sender[at+1:]), ">"))

	for _, trusted := range l.domains {
		if trusted == domain {
			if l.logger != nil {
				l.logger.Debug("Sender domain is trusted",
					zap.String("domain", domain),
					zap.String("sender", sender))
			}
			return true
		}
	}

	return false
}
