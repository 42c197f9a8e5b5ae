package core

import (
	"time"
)

// RiskLevel is the categorical classification of a risk score.
type RiskLevel string

const (
	RiskSafe      RiskLevel = "safe"
	RiskWarning   RiskLevel = "warning"
	RiskDangerous RiskLevel = "dangerous"
)

// Severity grades alerts, sandbox behaviors and sensitive-data findings.
type Severity string

const (
	// SeverityInfo grades benign sandbox behaviors; alert entries start at low.
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AlertAction identifies what the engine did when it raised an alert.
type AlertAction string

const (
	ActionScanned     AlertAction = "Scanned"
	ActionQuarantined AlertAction = "Quarantined"
	ActionWarning     AlertAction = "Warning"
	ActionBlocked     AlertAction = "Blocked"
	ActionSandbox     AlertAction = "Sandbox Analysis"
	ActionSecureEmail AlertAction = "Secure Email"
)

// Common threat type labels. ThreatType on an alert is free text, these are
// the values the engine itself emits.
const (
	ThreatPhishing   = "Phishing"
	ThreatMalware    = "Malware"
	ThreatSpoofing   = "Spoofing"
	ThreatAttachment = "Attachment"
	ThreatEncryption = "Encryption"
	ThreatNone       = "None"
)

// Verdict is the outcome of a sandbox analysis.
type Verdict string

const (
	VerdictClean      Verdict = "clean"
	VerdictSuspicious Verdict = "suspicious"
	VerdictMalicious  Verdict = "malicious"
)

// AttachmentStatus reflects a sandbox verdict attached to a message part.
type AttachmentStatus string

const (
	StatusMalicious  AttachmentStatus = "malicious"
	StatusSuspicious AttachmentStatus = "suspicious"
	StatusClean      AttachmentStatus = "clean"
)

// Attachment describes a single attachment part of a message.
type Attachment struct {
	Name   string           `json:"name"`
	Size   string           `json:"size,omitempty"`
	Type   string           `json:"type,omitempty"`
	Status AttachmentStatus `json:"status,omitempty"`
}

// EmailRecord is a scored inbox message. The extractor builds the skeleton,
// the scoring pipeline fills RiskScore, RiskLevel and Threats, and the
// quarantine decision is the only step that mutates it afterwards.
type EmailRecord struct {
	ID               string       `json:"id"`
	From             string       `json:"from"`
	FromName         string       `json:"fromName"`
	Subject          string       `json:"subject"`
	Body             string       `json:"body"`
	Date             time.Time    `json:"date"`
	Attachments      []Attachment `json:"attachments"`
	RiskScore        int          `json:"riskScore"`
	RiskLevel        RiskLevel    `json:"riskLevel"`
	Threats          []string     `json:"threats"`
	SenderReputation *int         `json:"senderReputation,omitempty"`
	DomainAge        string       `json:"domainAge,omitempty"`
	IsQuarantined    bool         `json:"isQuarantined"`
	IsRead           bool         `json:"isRead"`
}

// Policy holds the per-session response toggles. The engine reads it, never
// writes it.
type Policy struct {
	AutoQuarantine    bool `json:"auto_quarantine" mapstructure:"auto_quarantine"`
	BlockExecutables  bool `json:"block_executables" mapstructure:"block_executables"`
	RealtimeLinks     bool `json:"realtime_links" mapstructure:"realtime_links"`
	PhishingDetection bool `json:"phishing_detection" mapstructure:"phishing_detection"`
	ThreatAlerts      bool `json:"threat_alerts" mapstructure:"threat_alerts"`
	QuarantineNotify  bool `json:"quarantine_notify" mapstructure:"quarantine_notify"`
	WeeklyReport      bool `json:"weekly_report" mapstructure:"weekly_report"`
}

// DefaultPolicy returns the policy a fresh session starts with: everything on.
func DefaultPolicy() Policy {
	return Policy{
		AutoQuarantine:    true,
		BlockExecutables:  true,
		RealtimeLinks:     true,
		PhishingDetection: true,
		ThreatAlerts:      true,
		QuarantineNotify:  true,
		WeeklyReport:      true,
	}
}

// AlertEntry is an immutable audit record. ID and Timestamp are assigned by
// the alert log on append.
type AlertEntry struct {
	ID         int64       `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Action     AlertAction `json:"action"`
	ThreatType string      `json:"threatType"`
	Severity   Severity    `json:"severity"`
	Details    string      `json:"details"`
}

// Behavior is a single observed action in a sandbox behavior report.
type Behavior struct {
	Action   string   `json:"action"`
	Target   string   `json:"target"`
	Severity Severity `json:"severity"`
}

// SandboxReport is the outcome of a simulated detonation of an attachment.
//
// MD5 and SHA256 are fingerprints of the attachment *filename*, not of file
// content: the simulator never sees file bytes. They identify the report and
// must not be used as file-integrity hashes.
type SandboxReport struct {
	Filename           string     `json:"filename"`
	FileSize           string     `json:"fileSize"`
	FileType           string     `json:"fileType"`
	MD5                string     `json:"md5"`
	SHA256             string     `json:"sha256"`
	Behaviors          []Behavior `json:"behaviors"`
	Verdict            Verdict    `json:"verdict"`
	AnalysisTime       string     `json:"analysisTime"`
	SandboxEnvironment string     `json:"sandboxEnvironment"`
}

// SensitiveDataType names a category of regulated or high-value data.
type SensitiveDataType string

const (
	SensitiveCreditCard   SensitiveDataType = "Credit Card"
	SensitiveEmailAddress SensitiveDataType = "Email Address"
	SensitivePhoneNumber  SensitiveDataType = "Phone Number"
	SensitiveSsnOrCnic    SensitiveDataType = "SSN/CNIC"
	SensitiveIban         SensitiveDataType = "IBAN"
)

// SensitiveFinding is one detected occurrence of sensitive data in text.
type SensitiveFinding struct {
	Type     SensitiveDataType `json:"type"`
	Severity Severity          `json:"severity"`
	Count    int               `json:"count,omitempty"`
}

// InboundMessage is a raw transport-level message handed over by a mail
// source, newest first within a batch.
type InboundMessage struct {
	ID  string
	Raw []byte
}

// OutboundMessage is a composed message ready for submission.
type OutboundMessage struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// BatchResult is what one inbox scan produces: the scored records in
// newest-first order plus bookkeeping about records that failed extraction.
type BatchResult struct {
	BatchID   string         `json:"batchId"`
	Records   []*EmailRecord `json:"records"`
	Processed int            `json:"processed"`
	Failed    int            `json:"failed"`
	ScannedAt time.Time      `json:"scannedAt"`
}

// ReputationEntry tracks what the engine has previously seen from a sender.
type ReputationEntry struct {
	Sender       string
	AverageScore float64
	Samples      int
	Reputation   int
	LastSeen     time.Time
	ExpiresAt    time.Time
}

// EncryptionResult is the opaque payload returned by the crypto provider for
// an encrypted compose body.
type EncryptionResult struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	Key        string `json:"key"`
	Algorithm  string `json:"algorithm"`
}

// SignatureResult is the opaque payload returned by the crypto provider for
// a signed compose body.
type SignatureResult struct {
	Signature string `json:"signature"`
	Algorithm string `json:"algorithm"`
	PublicKey string `json:"publicKey"`
}

// SelfDestruct marks a composed message for expiry.
type SelfDestruct struct {
	Enabled   bool      `json:"enabled"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ComposeRequest is the input of the secure-compose flow.
type ComposeRequest struct {
	To              []string `json:"to"`
	Subject         string   `json:"subject"`
	Content         string   `json:"content"`
	Encrypt         bool     `json:"encrypt"`
	Sign            bool     `json:"sign"`
	SelfDestructHrs int      `json:"selfDestruct,omitempty"`
	Send            bool     `json:"send"`
}

// ComposeResult is the output of the secure-compose flow. Encryption and
// Signature are present only when requested.
type ComposeResult struct {
	Status        string             `json:"status"`
	SensitiveData []SensitiveFinding `json:"sensitiveData"`
	Encryption    *EncryptionResult  `json:"encryption,omitempty"`
	Signature     *SignatureResult   `json:"signature,omitempty"`
	SelfDestruct  *SelfDestruct      `json:"selfDestruct,omitempty"`
	Sent          bool               `json:"sent"`
}
