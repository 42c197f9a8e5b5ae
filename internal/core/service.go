package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ThreatScanService drives the inbox pipeline: fetch, extract, score,
// classify, decide, alert. Scoring is pure and runs in parallel; alert
// appends are re-serialized into batch order so the log stays deterministic.
type ThreatScanService struct {
	source      MailSource
	extractor   FeatureExtractor
	engine      *RuleEngine
	sandbox     AttachmentAnalyzer
	reputation  ReputationTracker
	alerts      AlertSink
	logger      *zap.Logger
	batchSize   int
	parallelism int
}

// NewThreatScanService creates the scan service. reputation may be nil when
// tracking is disabled.
func NewThreatScanService(
	source MailSource,
	extractor FeatureExtractor,
	engine *RuleEngine,
	sandbox AttachmentAnalyzer,
	reputation ReputationTracker,
	alerts AlertSink,
	logger *zap.Logger,
	batchSize int,
	parallelism int,
) *ThreatScanService {
	if parallelism < 1 {
		parallelism = 1
	}
	return &ThreatScanService{
		source:      source,
		extractor:   extractor,
		engine:      engine,
		sandbox:     sandbox,
		reputation:  reputation,
		alerts:      alerts,
		logger:      logger,
		batchSize:   batchSize,
		parallelism: parallelism,
	}
}

// ScanBatch fetches the latest messages and runs them through the pipeline.
// A transport failure is not a pipeline failure: it yields an empty batch.
// A record that cannot be processed is dropped from the batch; the rest
// proceed. Alerts are appended newest-message-first, then the batch summary.
func (s *ThreatScanService) ScanBatch(ctx context.Context, policy Policy) (*BatchResult, error) {
	result := &BatchResult{
		BatchID:   uuid.NewString(),
		Records:   []*EmailRecord{},
		ScannedAt: time.Now(),
	}

	msgs, err := s.source.FetchLatest(ctx, s.batchSize)
	if err != nil {
		s.logger.Warn("Mail source unavailable, returning empty batch",
			zap.String("batch_id", result.BatchID),
			zap.Error(err))
		return result, nil
	}

	records := make([]*EmailRecord, len(msgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, msg := range msgs {
		i, msg := i, msg
		g.Go(func() error {
			records[i] = s.scoreOne(gctx, msg)
			return nil
		})
	}
	// Workers never return errors; failures are recorded as nil slots.
	_ = g.Wait()

	// Quarantine decisions and alert appends happen sequentially in batch
	// order so the log order is deterministic regardless of scheduling.
	for _, rec := range records {
		if rec == nil {
			result.Failed++
			continue
		}
		if entry := Decide(rec, policy); entry != nil {
			if _, err := s.alerts.Append(*entry); err != nil {
				s.logger.Error("Failed to record alert", zap.Error(err))
			}
		}
		result.Records = append(result.Records, rec)
	}
	result.Processed = len(result.Records)

	if _, err := s.alerts.Append(AlertEntry{
		Action:     ActionScanned,
		ThreatType: ThreatNone,
		Severity:   SeverityLow,
		Details:    fmt.Sprintf("Routine scan completed - %d emails processed", result.Processed),
	}); err != nil {
		s.logger.Error("Failed to record scan summary", zap.Error(err))
	}

	s.logger.Info("Batch scan completed",
		zap.String("batch_id", result.BatchID),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed))

	return result, nil
}

// scoreOne extracts and scores a single message. It never propagates a
// failure: a panic from a malformed record yields a nil slot and the batch
// moves on.
func (s *ThreatScanService) scoreOne(ctx context.Context, msg InboundMessage) (rec *EmailRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Record processing failed",
				zap.String("id", msg.ID),
				zap.Any("panic", r))
			rec = nil
		}
	}()

	rec = s.extractor.Extract(msg.ID, msg.Raw)
	rec.RiskScore, rec.Threats = s.engine.Score(rec.Body, rec.Subject, rec.From)
	rec.RiskLevel = Classify(rec.RiskScore)

	if s.reputation != nil && rec.From != "" {
		if entry, err := s.reputation.Lookup(ctx, rec.From); err == nil {
			reputation := entry.Reputation
			rec.SenderReputation = &reputation
		}
		if err := s.reputation.Observe(ctx, rec.From, rec.RiskScore); err != nil {
			s.logger.Debug("Failed to update sender reputation",
				zap.String("sender", rec.From), zap.Error(err))
		}
	}

	return rec
}

// AnalyzeAttachment runs a filename through the sandbox and records the
// analysis. A malicious verdict additionally raises a Blocked alert when the
// policy blocks executables.
func (s *ThreatScanService) AnalyzeAttachment(filename string, policy Policy) SandboxReport {
	report := s.sandbox.Analyze(filename)

	severity := SeverityMedium
	if report.Verdict == VerdictMalicious {
		severity = SeverityCritical
	}
	if _, err := s.alerts.Append(AlertEntry{
		Action:     ActionSandbox,
		ThreatType: ThreatAttachment,
		Severity:   severity,
		Details:    fmt.Sprintf("Analyzed %s: %s", filename, report.Verdict),
	}); err != nil {
		s.logger.Error("Failed to record sandbox alert", zap.Error(err))
	}

	if report.Verdict == VerdictMalicious && policy.BlockExecutables {
		if _, err := s.alerts.Append(AlertEntry{
			Action:     ActionBlocked,
			ThreatType: ThreatMalware,
			Severity:   SeverityHigh,
			Details:    fmt.Sprintf("Blocked executable attachment %s", filename),
		}); err != nil {
			s.logger.Error("Failed to record block alert", zap.Error(err))
		}
	}

	return report
}

// Alerts exposes the session alert log for read access.
func (s *ThreatScanService) Alerts() AlertSink {
	return s.alerts
}
