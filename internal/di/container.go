package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/adapters/httpapi"
	"github.com/mikey/mail-sentry/internal/adapters/seal"
	"github.com/mikey/mail-sentry/internal/adapters/smtp"
	"github.com/mikey/mail-sentry/internal/alertlog"
	"github.com/mikey/mail-sentry/internal/config"
	"github.com/mikey/mail-sentry/internal/core"
	"github.com/mikey/mail-sentry/internal/dlp"
	"github.com/mikey/mail-sentry/internal/extract"
	"github.com/mikey/mail-sentry/internal/factory"
	"github.com/mikey/mail-sentry/internal/logging"
	"github.com/mikey/mail-sentry/internal/ports"
	"github.com/mikey/mail-sentry/internal/sandbox"
	"github.com/mikey/mail-sentry/internal/trust"
	"github.com/mikey/mail-sentry/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewReputationFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register trusted domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *trust.List {
		trustedDomains := cfg.GetStringSlice("scan.trusted_domains")
		if len(trustedDomains) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trustedDomains))
		}
		return trust.NewList(trustedDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register mail source
	if err := container.Provide(func(f *factory.SourceFactory) (core.MailSource, error) {
		return f.CreateMailSource()
	}); err != nil {
		return nil, err
	}

	// Register reputation tracker
	if err := container.Provide(func(f *factory.ReputationFactory, trusted *trust.List) (core.ReputationTracker, error) {
		return f.CreateReputationTracker(trusted)
	}); err != nil {
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

	// Register crypto provider
	if err := container.Provide(func(logger *zap.Logger) (core.CryptoProvider, error) {
		return seal.NewProvider(logger)
	}); err != nil {
		return nil, err
	}

	// Register mail submitter
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.MailSubmitter {
		smtpCfg := cfg.GetSMTP()
		if smtpCfg.Host == "" {
			logger.Info("No SMTP relay configured, outbound delivery disabled")
			return nil
		}
		return smtp.NewSubmitter(smtpCfg.Host, smtpCfg.Port, smtpCfg.Username, smtpCfg.Password, logger)
	}); err != nil {
		return nil, err
	}

	// Register threat scan service
	if err := container.Provide(func(
		source core.MailSource,
		extractor core.FeatureExtractor,
		engine *core.RuleEngine,
		analyzer core.AttachmentAnalyzer,
		tracker core.ReputationTracker,
		alerts *alertlog.Log,
		logger *zap.Logger,
		cfg *config.Config,
	) *core.ThreatScanService {
		return core.NewThreatScanService(
			source,
			extractor,
			engine,
			analyzer,
			tracker,
			alerts,
			logger,
			cfg.GetIMAP().BatchSize,
			cfg.GetScan().Parallelism,
		)
	}); err != nil {
		return nil, err
	}

	// Register secure compose service
	if err := container.Provide(func(
		scanner core.SensitiveScanner,
		crypto core.CryptoProvider,
		submitter core.MailSubmitter,
		alerts *alertlog.Log,
		logger *zap.Logger,
		cfg *config.Config,
	) *core.SecureComposeService {
		return core.NewSecureComposeService(
			scanner,
			crypto,
			submitter,
			alerts,
			logger,
			cfg.GetSMTP().From,
		)
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(
		scan *core.ThreatScanService,
		compose *core.SecureComposeService,
		alerts *alertlog.Log,
		logger *zap.Logger,
		cfg *config.Config,
	) ports.Server {
		policyCfg := cfg.GetPolicy()
		policy := core.Policy{
			AutoQuarantine:    policyCfg.AutoQuarantine,
			BlockExecutables:  policyCfg.BlockExecutables,
			RealtimeLinks:     policyCfg.RealtimeLinks,
			PhishingDetection: policyCfg.PhishingDetection,
			ThreatAlerts:      policyCfg.ThreatAlerts,
			QuarantineNotify:  policyCfg.QuarantineNotify,
			WeeklyReport:      policyCfg.WeeklyReport,
		}
		return httpapi.NewServer(scan, compose, alerts, logger, cfg.GetServer().ListenAddress, policy)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
