package config

// IMAPConfig represents the configuration for the IMAP mail source
type IMAPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Mailbox   string
	BatchSize int
}

// SMTPConfig represents the configuration for outbound submission
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ServerConfig represents the configuration for the HTTP API server
type ServerConfig struct {
	ListenAddress string
}

// ScanConfig represents the configuration for the scan pipeline
type ScanConfig struct {
	Parallelism    int
	TrustedDomains []string
}

// PolicyConfig mirrors the session policy toggles as configured defaults
type PolicyConfig struct {
	AutoQuarantine    bool
	BlockExecutables  bool
	RealtimeLinks     bool
	PhishingDetection bool
	ThreatAlerts      bool
	QuarantineNotify  bool
	WeeklyReport      bool
}

// GetIMAP returns the IMAP source configuration
func (c *Config) GetIMAP() IMAPConfig {
	return IMAPConfig{
		Host:      c.GetString("imap.host"),
		Port:      c.GetInt("imap.port"),
		Username:  c.GetString("imap.username"),
		Password:  c.GetString("imap.password"),
		Mailbox:   c.GetString("imap.mailbox"),
		BatchSize: c.GetInt("imap.batch_size"),
	}
}

// GetSMTP returns the outbound submission configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Host:     c.GetString("smtp.host"),
		Port:     c.GetInt("smtp.port"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}

// GetScan returns the scan pipeline configuration
func (c *Config) GetScan() ScanConfig {
	return ScanConfig{
		Parallelism:    c.GetInt("scan.parallelism"),
		TrustedDomains: c.GetStringSlice("scan.trusted_domains"),
	}
}

// GetPolicy returns the configured default policy toggles
func (c *Config) GetPolicy() PolicyConfig {
	return PolicyConfig{
		AutoQuarantine:    c.GetBool("policy.auto_quarantine"),
		BlockExecutables:  c.GetBool("policy.block_executables"),
		RealtimeLinks:     c.GetBool("policy.realtime_links"),
		PhishingDetection: c.GetBool("policy.phishing_detection"),
		ThreatAlerts:      c.GetBool("policy.threat_alerts"),
		QuarantineNotify:  c.GetBool("policy.quarantine_notify"),
		WeeklyReport:      c.GetBool("policy.weekly_report"),
	}
}
