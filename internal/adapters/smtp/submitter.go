package smtp

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/core"
)

// Submitter delivers composed messages through an upstream SMTP relay.
type Submitter struct {
	host     string
	port     int
	username string
	password string
	logger   *zap.Logger
}

// NewSubmitter creates an SMTP submitter.
func NewSubmitter(host string, port int, username, password string, logger *zap.Logger) *Submitter {
	return &Submitter{
		host:     host,
		port:     port,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Submit sends the message to all recipients in a single transaction.
func (s *Submitter) Submit(ctx context.Context, msg core.OutboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := sasl.NewPlainClient("", s.username, s.password)

	if err := smtp.SendMail(addr, auth, msg.From, msg.To, &buf); err != nil {
		return fmt.Errorf("smtp delivery via %s failed: %w", addr, err)
	}

	s.logger.Info("Message submitted",
		zap.String("relay", addr),
		zap.Int("recipients", len(msg.To)))

	return nil
}
