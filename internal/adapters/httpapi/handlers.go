package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/mail-sentry/internal/core"
)

func (s *Server) handleScan(c *gin.Context) {
	s.mu.RLock()
	policy := s.policy
	s.mu.RUnlock()

	batch, err := s.scan.ScanBatch(c.Request.Context(), policy)
	if err != nil {
		s.logger.Error("Scan failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		return
	}

	s.mu.Lock()
	s.lastBatch = batch
	view := *batch
	view.Records = s.snapshotLocked()
	s.mu.Unlock()

	c.JSON(http.StatusOK, view)
}

func (s *Server) handleListEmails(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"emails": s.records()})
}

func (s *Server) handleGetEmail(c *gin.Context) {
	rec := s.findRecord(c.Param("id"))
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleQuarantine(c *gin.Context) {
	s.setQuarantined(c, true)
}

func (s *Server) handleRestore(c *gin.Context) {
	s.setQuarantined(c, false)
}

func (s *Server) setQuarantined(c *gin.Context, quarantined bool) {
	s.mu.Lock()
	rec := s.findRecordLocked(c.Param("id"))
	if rec == nil {
		s.mu.Unlock()
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
		return
	}
	rec.IsQuarantined = quarantined
	view := *rec
	s.mu.Unlock()

	c.JSON(http.StatusOK, view)
}

func (s *Server) handleListQuarantine(c *gin.Context) {
	quarantined := []*core.EmailRecord{}
	for _, rec := range s.records() {
		if rec.IsQuarantined {
			quarantined = append(quarantined, rec)
		}
	}
	c.JSON(http.StatusOK, gin.H{"emails": quarantined})
}

func (s *Server) handleListAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": s.alerts.List()})
}

func (s *Server) handleStats(c *gin.Context) {
	records := s.records()

	stats := gin.H{
		"totalEmails": len(records),
		"safe":        0,
		"warning":     0,
		"dangerous":   0,
		"quarantined": 0,
	}
	safe, warning, dangerous, quarantined := 0, 0, 0, 0
	for _, rec := range records {
		switch rec.RiskLevel {
		case core.RiskSafe:
			safe++
		case core.RiskWarning:
			warning++
		case core.RiskDangerous:
			dangerous++
		}
		if rec.IsQuarantined {
			quarantined++
		}
	}
	stats["safe"] = safe
	stats["warning"] = warning
	stats["dangerous"] = dangerous
	stats["quarantined"] = quarantined

	c.JSON(http.StatusOK, stats)
}

type sandboxRequest struct {
	Attachment string `json:"attachment" binding:"required"`
}

func (s *Server) handleSandboxAnalyze(c *gin.Context) {
	var req sandboxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attachment filename is required"})
		return
	}

	s.mu.RLock()
	policy := s.policy
	s.mu.RUnlock()

	report := s.scan.AnalyzeAttachment(req.Attachment, policy)
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleCompose(c *gin.Context) {
	var req core.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid compose request"})
		return
	}

	result, err := s.compose.Compose(c.Request.Context(), req)
	if err != nil {
		s.logger.Error("Compose failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetSettings(c *gin.Context) {
	s.mu.RLock()
	policy := s.policy
	s.mu.RUnlock()
	c.JSON(http.StatusOK, policy)
}

func (s *Server) handlePutSettings(c *gin.Context) {
	var policy core.Policy
	if err := c.ShouldBindJSON(&policy); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings"})
		return
	}

	s.mu.Lock()
	s.policy = policy
	s.mu.Unlock()

	c.JSON(http.StatusOK, policy)
}

// records returns a snapshot of the last scan's records, or an empty slice
// when nothing has been scanned yet. Handlers marshal responses after the
// lock is released, so the cached records themselves are never handed out.
func (s *Server) records() []*core.EmailRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Server) snapshotLocked() []*core.EmailRecord {
	if s.lastBatch == nil {
		return []*core.EmailRecord{}
	}
	out := make([]*core.EmailRecord, len(s.lastBatch.Records))
	for i, rec := range s.lastBatch.Records {
		clone := *rec
		out[i] = &clone
	}
	return out
}

func (s *Server) findRecord(id string) *core.EmailRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.findRecordLocked(id)
	if rec == nil {
		return nil
	}
	clone := *rec
	return &clone
}

func (s *Server) findRecordLocked(id string) *core.EmailRecord {
	if s.lastBatch == nil {
		return nil
	}
	for _, rec := range s.lastBatch.Records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}
