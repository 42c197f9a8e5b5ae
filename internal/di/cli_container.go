package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/alertlog"
	"github.com/mikey/mail-sentry/internal/core"
	"github.com/mikey/mail-sentry/internal/dlp"
	"github.com/mikey/mail-sentry/internal/extract"
	"github.com/mikey/mail-sentry/internal/logging"
	"github.com/mikey/mail-sentry/internal/sandbox"
	"github.com/mikey/mail-sentry/internal/utils"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	InputFile  string
	Attachment string
	Verbose    bool
	JSONLog    bool
	JSONOut    bool
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	flag.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	flag.StringVar(&flags.Attachment, "attachment", "", "Run a sandbox analysis of this attachment filename instead of scoring an email")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.BoolVar(&flags.JSONOut, "json", false, "Print the result as JSON instead of a summary")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container
// for the CLI application. The CLI scores a single message from a file or
// stdin, so no mail source, reputation tracker or HTTP surface is wired.
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register feature extractor
	if err := container.Provide(func(logger *zap.Logger, text *utils.TextProcessor) core.FeatureExtractor {
		return extract.New(logger, text)
	}); err != nil {
		return nil, err
	}

	// Register rule engine
	if err := container.Provide(func() *core.RuleEngine {
		return core.NewRuleEngine(core.DefaultRules())
	}); err != nil {
		return nil, err
	}

	// Register attachment analyzer
	if err := container.Provide(func() core.AttachmentAnalyzer {
		return sandbox.New()
	}); err != nil {
		return nil, err
	}

	// Register sensitive data scanner
	if err := container.Provide(func() core.SensitiveScanner {
		return dlp.New()
	}); err != nil {
		return nil, err
	}

	// Register alert log
	if err := container.Provide(alertlog.New); err != nil {
		return nil, err
	}

	return container, nil
}
