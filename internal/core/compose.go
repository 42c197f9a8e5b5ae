package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SecureComposeService handles the outbound flow: every compose body is
// scanned for sensitive data, then optionally encrypted, signed and
// submitted. The service decides whether to invoke the crypto provider; the
// cryptography itself is opaque to it.
type SecureComposeService struct {
	scanner   SensitiveScanner
	crypto    CryptoProvider
	submitter MailSubmitter
	alerts    AlertSink
	logger    *zap.Logger
	from      string
	now       func() time.Time
}

// NewSecureComposeService creates the compose service. submitter may be nil
// when no outbound transport is configured; Send requests then fail.
func NewSecureComposeService(
	scanner SensitiveScanner,
	crypto CryptoProvider,
	submitter MailSubmitter,
	alerts AlertSink,
	logger *zap.Logger,
	from string,
) *SecureComposeService {
	return &SecureComposeService{
		scanner:   scanner,
		crypto:    crypto,
		submitter: submitter,
		alerts:    alerts,
		logger:    logger,
		from:      from,
		now:       time.Now,
	}
}

// Compose runs the secure-compose flow for one message. The sensitive-data
// scan always runs; encryption, signing, self-destruct stamping and
// submission happen only when requested.
func (s *SecureComposeService) Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	result := &ComposeResult{
		Status:        "success",
		SensitiveData: s.scanner.Scan(req.Content),
	}

	if req.Encrypt {
		enc, err := s.crypto.Encrypt(req.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt message: %w", err)
		}
		result.Encryption = enc
	}

	if req.Sign {
		sig, err := s.crypto.Sign(req.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to sign message: %w", err)
		}
		result.Signature = sig
	}

	if req.SelfDestructHrs > 0 {
		result.SelfDestruct = &SelfDestruct{
			Enabled:   true,
			ExpiresAt: s.now().Add(time.Duration(req.SelfDestructHrs) * time.Hour),
		}
	}

	if req.Send {
		if s.submitter == nil {
			return nil, fmt.Errorf("no outbound transport configured")
		}
		body := req.Content
		if result.Encryption != nil {
			body = result.Encryption.Ciphertext
		}
		if err := s.submitter.Submit(ctx, OutboundMessage{
			From:    s.from,
			To:      req.To,
			Subject: req.Subject,
			Body:    body,
		}); err != nil {
			return nil, fmt.Errorf("failed to submit message: %w", err)
		}
		result.Sent = true
	}

	if _, err := s.alerts.Append(AlertEntry{
		Action:     ActionSecureEmail,
		ThreatType: ThreatEncryption,
		Severity:   SeverityLow,
		Details:    fmt.Sprintf("Email composed with encryption=%t, signature=%t", req.Encrypt, req.Sign),
	}); err != nil {
		s.logger.Error("Failed to record compose alert", zap.Error(err))
	}

	return result, nil
}
