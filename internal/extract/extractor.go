package extract

import (
	"bytes"
	"io"
	netmail "net/mail"
	"strings"
	"time"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/core"
	"github.com/mikey/mail-sentry/internal/utils"
)

// BodyLimit is the number of characters of body text kept on a record.
const BodyLimit = 1000

// NoSubject is the placeholder for messages without a Subject header.
const NoSubject = "(no subject)"

// UnknownSender is the placeholder when no display name can be derived.
const UnknownSender = "Unknown"

// Extractor normalizes raw RFC 822 messages into EmailRecord skeletons.
// Extraction never fails: every decode problem degrades to a fallback value
// and the remaining headers and parts are still processed.
type Extractor struct {
	logger *zap.Logger
	text   *utils.TextProcessor
}

// New creates an extractor.
func New(logger *zap.Logger, text *utils.TextProcessor) *Extractor {
	return &Extractor{
		logger: logger,
		text:   text,
	}
}

// Extract builds an EmailRecord skeleton from raw message bytes. Score,
// level and quarantine state are left for the scoring pipeline to fill.
func (x *Extractor) Extract(id string, raw []byte) *core.EmailRecord {
	rec := &core.EmailRecord{
		ID:          id,
		Subject:     NoSubject,
		FromName:    UnknownSender,
		Attachments: []core.Attachment{},
		Threats:     []string{},
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		x.logger.Debug("Message unparsable as MIME, falling back to plain headers",
			zap.String("id", id), zap.Error(err))
		x.extractFallback(rec, raw)
		return rec
	}
	defer mr.Close()

	x.extractHeaders(rec, &mr.Header)
	x.extractParts(rec, mr)

	rec.Body = x.text.TruncateText(rec.Body, BodyLimit)
	return rec
}

func (x *Extractor) extractHeaders(rec *core.EmailRecord, h *mail.Header) {
	if subject, err := h.Subject(); err == nil {
		if subject != "" {
			rec.Subject = subject
		}
	} else if raw := h.Get("Subject"); raw != "" {
		// Encoded-word decode failed: keep the raw header bytes as UTF-8
		// with invalid sequences dropped.
		rec.Subject = x.text.SanitizeUTF8(raw)
	}

	rec.From = h.Get("From")
	if addrs, err := h.AddressList("From"); err == nil && len(addrs) > 0 && addrs[0].Name != "" {
		rec.FromName = addrs[0].Name
	}

	if date, err := h.Date(); err == nil {
		rec.Date = date
	}
}

// extractParts walks the message parts, keeping the first text/plain part
// that is not an attachment as the body and collecting attachment filenames.
// A part that fails to read contributes nothing; the walk continues.
func (x *Extractor) extractParts(rec *core.EmailRecord, mr *mail.Reader) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return
		}
		if err != nil {
			x.logger.Debug("Stopping part walk on malformed part",
				zap.String("id", rec.ID), zap.Error(err))
			return
		}

		switch header := part.Header.(type) {
		case *mail.InlineHeader:
			if rec.Body != "" {
				continue
			}
			contentType, _, err := header.ContentType()
			if err != nil || !strings.HasPrefix(contentType, "text/plain") {
				continue
			}
			body, err := io.ReadAll(part.Body)
			if err != nil {
				// Treat this part as empty and keep scanning
				continue
			}
			rec.Body = string(body)
		case *mail.AttachmentHeader:
			filename, err := header.Filename()
			if err != nil || filename == "" {
				continue
			}
			rec.Attachments = append(rec.Attachments, core.Attachment{Name: filename})
		}
	}
}

// extractFallback handles messages go-message refuses outright. Headers are
// re-parsed with net/mail; whatever still resists parsing keeps its default.
func (x *Extractor) extractFallback(rec *core.EmailRecord, raw []byte) {
	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return
	}

	if subject := msg.Header.Get("Subject"); subject != "" {
		rec.Subject = x.text.SanitizeUTF8(subject)
	}

	rec.From = msg.Header.Get("From")
	if addr, err := netmail.ParseAddress(rec.From); err == nil && addr.Name != "" {
		rec.FromName = addr.Name
	}

	if date, err := msg.Header.Date(); err == nil {
		rec.Date = date
	} else {
		rec.Date = time.Time{}
	}

	if body, err := io.ReadAll(msg.Body); err == nil {
		rec.Body = x.text.TruncateText(x.text.SanitizeUTF8(string(body)), BodyLimit)
	}
}
