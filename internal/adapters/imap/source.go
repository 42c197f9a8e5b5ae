package imap

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/core"
)

// Source fetches raw messages from an IMAP mailbox. It opens a fresh
// connection per fetch: the engine runs scans on demand, not continuously,
// and a held-open session would only rot between them.
type Source struct {
	host     string
	port     int
	username string
	password string
	mailbox  string
	logger   *zap.Logger
}

// NewSource creates an IMAP mail source.
func NewSource(host string, port int, username, password, mailbox string, logger *zap.Logger) *Source {
	if mailbox == "" {
		mailbox = "INBOX"
	}
	return &Source{
		host:     host,
		port:     port,
		username: username,
		password: password,
		mailbox:  mailbox,
		logger:   logger,
	}
}

// FetchLatest retrieves up to n of the newest messages, newest first. Any
// connection, auth or fetch failure is returned as-is; the caller treats it
// as "no records available".
func (s *Source) FetchLatest(ctx context.Context, n int) ([]core.InboundMessage, error) {
	if n <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer c.Logout()

	if err := c.Login(s.username, s.password); err != nil {
		return nil, fmt.Errorf("imap login failed: %w", err)
	}

	mbox, err := c.Select(s.mailbox, true)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", s.mailbox, err)
	}
	if mbox.Messages == 0 {
		s.logger.Debug("Mailbox is empty", zap.String("mailbox", s.mailbox))
		return nil, nil
	}

	from := uint32(1)
	if mbox.Messages > uint32(n) {
		from = mbox.Messages - uint32(n) + 1
	}
	seqSet := new(imap.SeqSet)
	seqSet.AddRange(from, mbox.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchUid}

	messages := make(chan *imap.Message, n)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, items, messages)
	}()

	var fetched []core.InboundMessage
	for msg := range messages {
		r := msg.GetBody(section)
		if r == nil {
			s.logger.Debug("Message without body section skipped", zap.Uint32("uid", msg.Uid))
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			s.logger.Debug("Failed to read message body", zap.Uint32("uid", msg.Uid), zap.Error(err))
			continue
		}
		fetched = append(fetched, core.InboundMessage{
			ID:  strconv.FormatUint(uint64(msg.Uid), 10),
			Raw: raw,
		})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch failed: %w", err)
	}

	// The server delivers ascending sequence numbers; the pipeline wants
	// newest first.
	for i, j := 0, len(fetched)-1; i < j; i, j = i+1, j-1 {
		fetched[i], fetched[j] = fetched[j], fetched[i]
	}

	s.logger.Info("Fetched messages",
		zap.String("mailbox", s.mailbox),
		zap.Int("count", len(fetched)))

	return fetched, nil
}
