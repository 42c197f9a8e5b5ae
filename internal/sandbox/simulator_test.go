package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mail-sentry/internal/core"
)

func TestAnalyzeExecutable(t *testing.T) {
	report := New().Analyze("Invoice_2024_0892.pdf.exe")

	assert.Equal(t, core.VerdictMalicious, report.Verdict)
	require.Len(t, report.Behaviors, 4)

	actions := make([]string, len(report.Behaviors))
	for i, b := range report.Behaviors {
		actions[i] = b.Action
	}
	assert.Equal(t, []string{
		"File system access",
		"Registry modification",
		"Network connection",
		"Process injection",
	}, actions)
	assert.Equal(t, "explorer.exe", report.Behaviors[3].Target)
	assert.Equal(t, core.SeverityCritical, report.Behaviors[3].Severity)

	assert.Equal(t, "EXE", report.FileType)
	assert.Equal(t, Environment, report.SandboxEnvironment)
}

func TestAnalyzeCategories(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		verdict       core.Verdict
		behaviorCount int
	}{
		{"executable", "setup.exe", core.VerdictMalicious, 4},
		{"uppercase executable", "SETUP.EXE", core.VerdictMalicious, 4},
		{"macro document", "report.docm", core.VerdictSuspicious, 3},
		{"macro in name", "macro_enabled_invoice.doc", core.VerdictSuspicious, 3},
		{"archive", "photos.zip", core.VerdictSuspicious, 2},
		{"plain document", "report.pdf", core.VerdictClean, 2},
		{"image", "holiday.jpg", core.VerdictClean, 2},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := s.Analyze(tt.filename)
			assert.Equal(t, tt.verdict, report.Verdict)
			assert.Len(t, report.Behaviors, tt.behaviorCount)
		})
	}
}

func TestAnalyzeExecutableBeatsArchive(t *testing.T) {
	// The cascade stops at the first match, so a name hitting two
	// categories resolves to the more severe one.
	report := New().Analyze("payload.exe.zip")
	assert.Equal(t, core.VerdictMalicious, report.Verdict)
}

func TestAnalyzeCleanProfile(t *testing.T) {
	report := New().Analyze("report.pdf")

	require.Len(t, report.Behaviors, 2)
	assert.Equal(t, "File opened", report.Behaviors[0].Action)
	assert.Equal(t, "No malicious activity", report.Behaviors[1].Action)
	for _, b := range report.Behaviors {
		assert.Equal(t, core.SeverityInfo, b.Severity)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	s := New()
	first := s.Analyze("archive.zip")
	second := s.Analyze("archive.zip")

	assert.Equal(t, first, second)
}

func TestAnalyzeReportShape(t *testing.T) {
	report := New().Analyze("report.pdf")

	assert.Equal(t, "report.pdf", report.Filename)
	assert.Len(t, report.MD5, 32)
	assert.Len(t, report.SHA256, 64)
	assert.Regexp(t, `^\d+ KB$`, report.FileSize)
	assert.Regexp(t, `^\d+ seconds$`, report.AnalysisTime)
	assert.Equal(t, "PDF", report.FileType)
}

func TestFileType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"report.pdf", "PDF"},
		{"archive.tar.gz", "GZ"},
		{"README", "Unknown"},
		{"trailing.", "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, fileType(tt.filename), tt.filename)
	}
}
