package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/core"
	"github.com/mikey/mail-sentry/internal/di"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run scores a single email, or analyzes a single attachment filename when
// -attachment is given.
func run(
	flags *di.CLIFlags,
	logger *zap.Logger,
	extractor core.FeatureExtractor,
	engine *core.RuleEngine,
	analyzer core.AttachmentAnalyzer,
	scanner core.SensitiveScanner,
) error {
	defer logger.Sync()

	if flags.Attachment != "" {
		return analyzeAttachment(flags, analyzer)
	}
	return scoreEmail(flags, logger, extractor, engine, scanner)
}

func analyzeAttachment(flags *di.CLIFlags, analyzer core.AttachmentAnalyzer) error {
	report := analyzer.Analyze(flags.Attachment)

	if flags.JSONOut {
		return printJSON(report)
	}

	fmt.Printf("\n=== Sandbox Analysis ===\n")
	fmt.Printf("Filename: %s\n", report.Filename)
	fmt.Printf("File type: %s\n", report.FileType)
	fmt.Printf("File size: %s\n", report.FileSize)
	fmt.Printf("MD5: %s\n", report.MD5)
	fmt.Printf("SHA256: %s\n", report.SHA256)
	fmt.Printf("Environment: %s\n", report.SandboxEnvironment)
	fmt.Printf("Analysis time: %s\n", report.AnalysisTime)
	fmt.Printf("Verdict: %s\n", report.Verdict)
	fmt.Printf("\n=== Observed Behavior ===\n")
	for _, b := range report.Behaviors {
		fmt.Printf("[%s] %s: %s\n", b.Severity, b.Action, b.Target)
	}
	return nil
}

func scoreEmail(
	flags *di.CLIFlags,
	logger *zap.Logger,
	extractor core.FeatureExtractor,
	engine *core.RuleEngine,
	scanner core.SensitiveScanner,
) error {
	var emailReader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	raw, err := io.ReadAll(emailReader)
	if err != nil {
		logger.Fatal("Failed to read email", zap.Error(err))
	}

	startTime := time.Now()

	rec := extractor.Extract("cli-1", raw)
	score, threats := engine.Score(rec.Body, rec.Subject, rec.From)
	rec.RiskScore = score
	rec.RiskLevel = core.Classify(score)
	rec.Threats = threats

	findings := scanner.Scan(rec.Body)
	duration := time.Since(startTime)

	if flags.JSONOut {
		return printJSON(struct {
			*core.EmailRecord
			SensitiveData []core.SensitiveFinding `json:"sensitiveData"`
		}{rec, findings})
	}

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", rec.From)
	fmt.Printf("Subject: %s\n", rec.Subject)
	fmt.Printf("Date: %s\n", rec.Date.Format(time.RFC1123Z))
	fmt.Printf("Body length: %d bytes\n", len(rec.Body))
	if len(rec.Attachments) > 0 {
		names := make([]string, len(rec.Attachments))
		for i, a := range rec.Attachments {
			names[i] = a.Name
		}
		fmt.Printf("Attachments: %s\n", strings.Join(names, ", "))
	}

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Risk score: %d\n", rec.RiskScore)
	fmt.Printf("Risk level: %s\n", rec.RiskLevel)
	if len(rec.Threats) > 0 {
		fmt.Printf("Threat indicators:\n")
		for _, t := range rec.Threats {
			fmt.Printf("  - %s\n", t)
		}
	} else {
		fmt.Printf("Threat indicators: none\n")
	}
	if len(findings) > 0 {
		fmt.Printf("Sensitive data:\n")
		for _, f := range findings {
			fmt.Printf("  - %s (%s)\n", f.Type, f.Severity)
		}
	}
	fmt.Printf("Processing time: %v\n", duration)

	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
