package sandbox

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mikey/mail-sentry/internal/core"
)

// Environment is the simulated detonation environment reported on every
// analysis.
const Environment = "Windows 10 x64 - Isolated VM"

// categoryRule pairs a filename predicate with the behavior profile it
// selects. Rules are evaluated top to bottom, first match wins.
type categoryRule struct {
	match     func(name string) bool
	verdict   core.Verdict
	behaviors []core.Behavior
}

func containsAny(tokens ...string) func(string) bool {
	return func(name string) bool {
		for _, token := range tokens {
			if strings.Contains(name, token) {
				return true
			}
		}
		return false
	}
}

// Simulator produces simulated behavior reports for attachment filenames.
//
// No file content is available to it: the md5/sha256 fingerprints in its
// reports are computed over the filename string and identify the report, not
// the file. Analyze is total and deterministic, so it is safe to call
// concurrently and to replay in tests.
type Simulator struct {
	cascade []categoryRule
}

// New creates a simulator with the standard category cascade. Order is
// significant: the macro rule must run before any broader document rule so
// ".docm" is never mistaken for a plain document.
func New() *Simulator {
	return &Simulator{
		cascade: []categoryRule{
			{
				match:   containsAny(".exe", "exe"),
				verdict: core.VerdictMalicious,
				behaviors: []core.Behavior{
					{Action: "File system access", Target: "C:\\Windows\\System32", Severity: core.SeverityCritical},
					{Action: "Registry modification", Target: "HKLM\\SOFTWARE\\Microsoft\\Windows\\CurrentVersion\\Run", Severity: core.SeverityHigh},
					{Action: "Network connection", Target: "185.234.72.19:443", Severity: core.SeverityHigh},
					{Action: "Process injection", Target: "explorer.exe", Severity: core.SeverityCritical},
				},
			},
			{
				match:   containsAny(".docm", "macro"),
				verdict: core.VerdictSuspicious,
				behaviors: []core.Behavior{
					{Action: "Macro execution", Target: "AutoOpen()", Severity: core.SeverityMedium},
					{Action: "PowerShell invocation", Target: "powershell.exe -enc", Severity: core.SeverityHigh},
					{Action: "Download attempt", Target: "http://malware-host.com/payload", Severity: core.SeverityCritical},
				},
			},
			{
				match:   containsAny(".zip"),
				verdict: core.VerdictSuspicious,
				behaviors: []core.Behavior{
					{Action: "Archive extraction", Target: "temp folder", Severity: core.SeverityLow},
					{Action: "Hidden file detected", Target: ".hidden_payload.exe", Severity: core.SeverityHigh},
				},
			},
		},
	}
}

// cleanProfile is the fall-through for filenames no rule claims.
var cleanProfile = []core.Behavior{
	{Action: "File opened", Target: "Document viewer", Severity: core.SeverityInfo},
	{Action: "No malicious activity", Target: "N/A", Severity: core.SeverityInfo},
}

// Analyze produces a behavior report for the given attachment filename.
// Unknown filenames fall through to the clean profile; the function never
// fails.
func (s *Simulator) Analyze(filename string) core.SandboxReport {
	lower := strings.ToLower(filename)

	verdict := core.VerdictClean
	behaviors := cleanProfile
	for _, rule := range s.cascade {
		if rule.match(lower) {
			verdict = rule.verdict
			behaviors = rule.behaviors
			break
		}
	}

	md5Sum := md5.Sum([]byte(filename))
	sha256Sum := sha256.Sum256([]byte(filename))

	return core.SandboxReport{
		Filename:           filename,
		FileSize:           fmt.Sprintf("%d KB", 50+int(md5Sum[0])%451),
		FileType:           fileType(filename),
		MD5:                hex.EncodeToString(md5Sum[:]),
		SHA256:             hex.EncodeToString(sha256Sum[:]),
		Behaviors:          behaviors,
		Verdict:            verdict,
		AnalysisTime:       fmt.Sprintf("%d seconds", 5+int(sha256Sum[0])%11),
		SandboxEnvironment: Environment,
	}
}

// fileType derives the declared type from the filename extension, uppercased,
// or "Unknown" when the name has none.
func fileType(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return "Unknown"
	}
	return strings.ToUpper(filename[idx+1:])
}
