package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/adapters/reputation"
	"github.com/mikey/mail-sentry/internal/config"
	"github.com/mikey/mail-sentry/internal/core"
	"github.com/mikey/mail-sentry/internal/trust"
)

// ReputationFactory creates reputation trackers based on configuration
type ReputationFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewReputationFactory creates a new reputation factory
func NewReputationFactory(cfg *config.Config, logger *zap.Logger) *ReputationFactory {
	return &ReputationFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateReputationTracker creates a reputation tracker based on the
// configuration. A "none" type disables tracking and returns nil.
func (f *ReputationFactory) CreateReputationTracker(trusted *trust.List) (core.ReputationTracker, error) {
	trackerType := f.cfg.GetString("reputation.type")

	switch trackerType {
	case "none":
		return nil, nil
	case "memory":
		ttl, err := f.cfg.GetDuration("reputation.ttl")
		if err != nil {
			return nil, fmt.Errorf("invalid reputation TTL: %w", err)
		}
		cleanupFreq, err := f.cfg.GetDuration("reputation.cleanup_frequency")
		if err != nil {
			return nil, fmt.Errorf("invalid reputation cleanup frequency: %w", err)
		}
		return reputation.NewMemoryTracker(f.logger, trusted, ttl, cleanupFreq), nil
	default:
		return nil, fmt.Errorf("unsupported reputation tracker type: %s", trackerType)
	}
}
