package reputation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikey/mail-sentry/internal/core"
	"github.com/mikey/mail-sentry/internal/trust"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a sender has no tracked entry.
var ErrNotFound = errors.New("reputation entry not found")

// MemoryTracker is an in-memory implementation of core.ReputationTracker.
// Reputation is 100 minus the running average of the sender's past risk
// scores; senders on the trusted-domain list are pinned at 100. Entries
// expire after the configured TTL, so reputation never persists beyond the
// process.
type MemoryTracker struct {
	entries     map[string]*core.ReputationEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	trusted     *trust.List
	ttl         time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMemoryTracker creates a tracker and starts its background cleanup task.
func NewMemoryTracker(logger *zap.Logger, trusted *trust.List, ttl, cleanupFreq time.Duration) *MemoryTracker {
	tracker := &MemoryTracker{
		entries:     make(map[string]*core.ReputationEntry),
		logger:      logger,
		trusted:     trusted,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go tracker.startCleanupTask()

	return tracker
}

// Lookup retrieves the tracked entry for a sender. Trusted senders always
// resolve to a synthetic entry with maximum reputation.
func (t *MemoryTracker) Lookup(ctx context.Context, sender string) (*core.ReputationEntry, error) {
	if t.trusted != nil && t.trusted.Contains(sender) {
		return &core.ReputationEntry{
			Sender:     sender,
			Reputation: 100,
			LastSeen:   time.Now(),
		}, nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.entries[sender]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, ErrNotFound
	}

	copied := *entry
	return &copied, nil
}

// Observe folds a new risk score into the sender's running average and
// refreshes the entry's expiry.
func (t *MemoryTracker) Observe(ctx context.Context, sender string, riskScore int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	entry, ok := t.entries[sender]
	if !ok || now.After(entry.ExpiresAt) {
		entry = &core.ReputationEntry{Sender: sender}
		t.entries[sender] = entry
	}

	total := entry.AverageScore*float64(entry.Samples) + float64(riskScore)
	entry.Samples++
	entry.AverageScore = total / float64(entry.Samples)
	entry.Reputation = reputationFromAverage(entry.AverageScore)
	entry.LastSeen = now
	entry.ExpiresAt = now.Add(t.ttl)

	return nil
}

// Cleanup removes expired entries
func (t *MemoryTracker) Cleanup(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for sender, entry := range t.entries {
		if now.After(entry.ExpiresAt) {
			delete(t.entries, sender)
			expiredCount++
		}
	}

	t.logger.Debug("Cleaned up expired reputation entries", zap.Int("expired_count", expiredCount))
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (t *MemoryTracker) startCleanupTask() {
	ticker := time.NewTicker(t.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := t.Cleanup(context.Background()); err != nil {
				t.logger.Error("Failed to clean up reputation entries", zap.Error(err))
			}
		case <-t.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (t *MemoryTracker) Stop() {
	close(t.stopCh)
}

func reputationFromAverage(avg float64) int {
	rep := 100 - int(avg+0.5)
	if rep < 0 {
		rep = 0
	}
	if rep > 100 {
		rep = 100
	}
	return rep
}
