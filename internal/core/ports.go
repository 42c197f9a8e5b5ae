package core

import (
	"context"
)

// FeatureExtractor turns a raw transport-level message into an EmailRecord
// skeleton. Implementations must not fail: any decode problem degrades to a
// fallback value and extraction continues.
type FeatureExtractor interface {
	Extract(id string, raw []byte) *EmailRecord
}

// AttachmentAnalyzer produces a simulated behavior report for an attachment
// filename.
type AttachmentAnalyzer interface {
	Analyze(filename string) SandboxReport
}

// SensitiveScanner detects regulated or high-value data patterns in text.
type SensitiveScanner interface {
	Scan(text string) []SensitiveFinding
}

// AlertSink records alert entries and exposes the retained ones
// most-recent-first. The engine only ever appends through this port; the
// bounded in-memory log is the implementation.
type AlertSink interface {
	Append(entry AlertEntry) (AlertEntry, error)
	List() []AlertEntry
}

// MailSource fetches the latest raw messages from a mailbox, newest first.
// This is the only network-facing dependency of the scan pipeline.
type MailSource interface {
	FetchLatest(ctx context.Context, n int) ([]InboundMessage, error)
}

// MailSubmitter hands a composed message to an outbound transport.
type MailSubmitter interface {
	Submit(ctx context.Context, msg OutboundMessage) error
}

// CryptoProvider encrypts and signs compose plaintext. The engine forwards
// the plaintext and passes the results through opaquely; it implements no
// cryptography of its own.
type CryptoProvider interface {
	Encrypt(plaintext string) (*EncryptionResult, error)
	Sign(message string) (*SignatureResult, error)
}

// ReputationTracker records the scores previously seen from a sender and
// derives a 0-100 reputation from them.
type ReputationTracker interface {
	// Lookup retrieves the tracked entry for a sender
	Lookup(ctx context.Context, sender string) (*ReputationEntry, error)

	// Observe folds a new risk score into the sender's running average
	Observe(ctx context.Context, sender string, riskScore int) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
