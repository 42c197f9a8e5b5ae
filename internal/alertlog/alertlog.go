package alertlog

import (
	"errors"
	"sync"
	"time"

	"github.com/mikey/mail-sentry/internal/core"
	"go.uber.org/zap"
)

// Capacity is the fixed number of entries the log retains. Appending beyond
// it evicts the oldest entry.
const Capacity = 20

// ErrMalformedEntry is returned when an entry is missing a required field.
// Such entries are dropped and do not consume capacity.
var ErrMalformedEntry = errors.New("alert entry missing required field")

// Log is a bounded, append-ordered store of alert entries. It is the single
// stateful component of the engine and is safe for concurrent use; append
// order is whatever order callers serialize their appends into.
type Log struct {
	mu      sync.Mutex
	entries []core.AlertEntry
	nextID  int64
	now     func() time.Time
	logger  *zap.Logger
}

var _ core.AlertSink = (*Log)(nil)

// New creates an empty alert log.
func New(logger *zap.Logger) *Log {
	return &Log{
		nextID: 1,
		now:    time.Now,
		logger: logger,
	}
}

// NewWithClock creates an alert log with an injected clock, for tests.
func NewWithClock(logger *zap.Logger, now func() time.Time) *Log {
	l := New(logger)
	l.now = now
	return l
}

// Append stores an entry, assigning it the next monotonic id and the current
// timestamp, evicting the oldest entry when the log is full. The stored entry
// is returned.
func (l *Log) Append(entry core.AlertEntry) (core.AlertEntry, error) {
	if entry.Action == "" || entry.Severity == "" || entry.Details == "" {
		if l.logger != nil {
			l.logger.Warn("Dropping malformed alert entry",
				zap.String("action", string(entry.Action)),
				zap.String("severity", string(entry.Severity)))
		}
		return core.AlertEntry{}, ErrMalformedEntry
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry.ID = l.nextID
	entry.Timestamp = l.now()
	l.nextID++

	l.entries = append(l.entries, entry)
	if len(l.entries) > Capacity {
		l.entries = l.entries[len(l.entries)-Capacity:]
	}

	if l.logger != nil {
		l.logger.Debug("Alert recorded",
			zap.Int64("id", entry.ID),
			zap.String("action", string(entry.Action)),
			zap.String("threat_type", entry.ThreatType),
			zap.String("severity", string(entry.Severity)))
	}
	return entry, nil
}

// List returns the retained entries most-recent-first.
func (l *Log) List() []core.AlertEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]core.AlertEntry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len reports how many entries are currently retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
