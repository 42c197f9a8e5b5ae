package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/alertlog"
	"github.com/mikey/mail-sentry/internal/core"
	"github.com/mikey/mail-sentry/internal/dlp"
	"github.com/mikey/mail-sentry/internal/sandbox"
)

type fixedSource struct {
	msgs []core.InboundMessage
}

func (s *fixedSource) FetchLatest(ctx context.Context, n int) ([]core.InboundMessage, error) {
	return s.msgs, nil
}

// rawExtractor treats the whole payload as the body and derives the sender
// from the message id.
type rawExtractor struct{}

func (rawExtractor) Extract(id string, raw []byte) *core.EmailRecord {
	return &core.EmailRecord{
		ID:          id,
		From:        id + "@fraud.xyz",
		FromName:    id,
		Subject:     "test",
		Body:        string(raw),
		Attachments: []core.Attachment{},
		Threats:     []string{},
	}
}

type noopCrypto struct{}

func (noopCrypto) Encrypt(plaintext string) (*core.EncryptionResult, error) {
	return &core.EncryptionResult{Ciphertext: plaintext, Algorithm: "AES-256-GCM"}, nil
}

func (noopCrypto) Sign(message string) (*core.SignatureResult, error) {
	return &core.SignatureResult{Signature: "sig", Algorithm: "RSA-2048-SHA256"}, nil
}

func newTestServer(msgs []core.InboundMessage) *Server {
	logger := zap.NewNop()
	alerts := alertlog.New(logger)
	scan := core.NewThreatScanService(
		&fixedSource{msgs: msgs},
		rawExtractor{},
		core.NewRuleEngine(core.DefaultRules()),
		sandbox.New(),
		nil,
		alerts,
		logger,
		20,
		2,
	)
	compose := core.NewSecureComposeService(
		dlp.New(),
		noopCrypto{},
		nil,
		alerts,
		logger,
		"sentry@example.com",
	)
	return NewServer(scan, compose, alerts, logger, "127.0.0.1:0", core.DefaultPolicy())
}

func do(s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(nil)

	rec := do(s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScanAndListEmails(t *testing.T) {
	s := newTestServer([]core.InboundMessage{
		{ID: "scam", Raw: []byte("urgent immediately verify your credit card suspended")},
	})

	rec := do(s, http.MethodPost, "/api/scan", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var batch core.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Equal(t, 1, batch.Processed)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, core.RiskDangerous, batch.Records[0].RiskLevel)
	assert.True(t, batch.Records[0].IsQuarantined)

	rec = do(s, http.MethodGet, "/api/emails", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Emails []core.EmailRecord `json:"emails"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Emails, 1)

	rec = do(s, http.MethodGet, "/api/emails/scam", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/api/emails/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEmailsBeforeFirstScan(t *testing.T) {
	s := newTestServer(nil)

	rec := do(s, http.MethodGet, "/api/emails", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"emails":[]}`, rec.Body.String())
}

func TestQuarantineOverride(t *testing.T) {
	s := newTestServer([]core.InboundMessage{
		{ID: "benign", Raw: []byte("lunch at noon")},
	})
	require.Equal(t, http.StatusOK, do(s, http.MethodPost, "/api/scan", nil).Code)

	rec := do(s, http.MethodPost, "/api/emails/benign/quarantine", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/api/quarantine", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Emails []core.EmailRecord `json:"emails"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Emails, 1)
	assert.Equal(t, "benign", listing.Emails[0].ID)

	rec = do(s, http.MethodPost, "/api/emails/benign/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/api/quarantine", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing.Emails)
}

func TestQuarantineConcurrentWithList(t *testing.T) {
	s := newTestServer([]core.InboundMessage{
		{ID: "benign", Raw: []byte("lunch at noon")},
	})
	require.Equal(t, http.StatusOK, do(s, http.MethodPost, "/api/scan", nil).Code)

	// Quarantine toggles race against list and get marshalling; the handlers
	// must only ever serialize snapshots of the cached records.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			do(s, http.MethodPost, "/api/emails/benign/quarantine", nil)
			do(s, http.MethodPost, "/api/emails/benign/restore", nil)
		}()
		go func() {
			defer wg.Done()
			do(s, http.MethodGet, "/api/emails", nil)
			do(s, http.MethodGet, "/api/emails/benign", nil)
		}()
	}
	wg.Wait()

	rec := do(s, http.MethodGet, "/api/emails/benign", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var email core.EmailRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &email))
	assert.False(t, email.IsQuarantined)
}

func TestStats(t *testing.T) {
	s := newTestServer([]core.InboundMessage{
		{ID: "scam", Raw: []byte("urgent immediately verify your credit card suspended")},
		{ID: "benign", Raw: []byte("lunch at noon")},
	})
	require.Equal(t, http.StatusOK, do(s, http.MethodPost, "/api/scan", nil).Code)

	rec := do(s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats["totalEmails"])
	assert.Equal(t, 1, stats["dangerous"])
	assert.Equal(t, 1, stats["quarantined"])
}

func TestAlertsEndpoint(t *testing.T) {
	s := newTestServer(nil)
	require.Equal(t, http.StatusOK, do(s, http.MethodPost, "/api/scan", nil).Code)

	rec := do(s, http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Alerts []core.AlertEntry `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Alerts, 1)
	assert.Equal(t, core.ActionScanned, listing.Alerts[0].Action)
}

func TestSandboxAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(nil)

	rec := do(s, http.MethodPost, "/api/sandbox/analyze", map[string]string{
		"attachment": "Invoice_2024_0892.pdf.exe",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var report core.SandboxReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, core.VerdictMalicious, report.Verdict)
	assert.Len(t, report.Behaviors, 4)

	rec = do(s, http.MethodPost, "/api/sandbox/analyze", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComposeEndpoint(t *testing.T) {
	s := newTestServer(nil)

	rec := do(s, http.MethodPost, "/api/compose", core.ComposeRequest{
		To:      []string{"bob@example.com"},
		Subject: "hello",
		Content: "reach me at alice@example.com",
		Encrypt: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result core.ComposeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "success", result.Status)
	require.NotNil(t, result.Encryption)
	require.Len(t, result.SensitiveData, 1)
	assert.Equal(t, core.SensitiveEmailAddress, result.SensitiveData[0].Type)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestServer(nil)

	rec := do(s, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var policy core.Policy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policy))
	assert.True(t, policy.AutoQuarantine)

	policy.AutoQuarantine = false
	rec = do(s, http.MethodPut, "/api/settings", policy)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/api/settings", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &policy))
	assert.False(t, policy.AutoQuarantine)
}
