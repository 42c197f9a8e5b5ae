package core

import (
	"fmt"
)

// Decide applies the session policy to a classified record. It is the only
// place that mutates a record after creation: a dangerous record is flagged
// quarantined when the policy allows automatic quarantine. The returned alert
// is nil for safe records.
//
// The quarantine flag depends only on the policy and the risk level;
// attachments influence nothing but the alert's threat type.
func Decide(rec *EmailRecord, policy Policy) *AlertEntry {
	switch {
	case policy.AutoQuarantine && rec.RiskLevel == RiskDangerous:
		rec.IsQuarantined = true
		threatType := ThreatPhishing
		if len(rec.Attachments) > 0 {
			threatType = ThreatMalware
		}
		return &AlertEntry{
			Action:     ActionQuarantined,
			ThreatType: threatType,
			Severity:   SeverityCritical,
			Details:    fmt.Sprintf("High risk email from %s quarantined", rec.FromName),
		}
	case rec.RiskLevel == RiskWarning:
		return &AlertEntry{
			Action:     ActionWarning,
			ThreatType: ThreatSpoofing,
			Severity:   SeverityMedium,
			Details:    fmt.Sprintf("Suspicious sender: %s", rec.From),
		}
	}
	return nil
}
