package sendleadnotification

import (
	"fmt"
	"time"

	"fiscal-forum/internal/common/config"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	EmailEnabled  bool          `mapstructure:"email_enabled"`
	SMSEnabled    bool          `mapstructure:"sms_enabled"`
	SalesEmail    string        `mapstructure:"sales_email"`
	SMSFormTypes  []string      `mapstructure:"sms_form_types"`
	// SentTTL is how long a delivered message is remembered so job retries
	// do not send it twice.
	SentTTL time.Duration `mapstructure:"sent_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		EmailEnabled:  true,
		SMSFormTypes:  []string{"home-loan", "lap-loan", "business-loan", "securities-loan", "education-loan"},
		SentTTL:       24 * time.Hour,
	}
}

// ConfigFromApp combines workers.send-lead-notification with the
// notifications and leads sections.
func ConfigFromApp(app *config.Config) *Config {
	cfg := DefaultConfig()
	if app == nil {
		return cfg
	}
	wc := config.GetWorkerConfig(app, TaskType)
	cfg.Enabled = wc.Enabled
	if wc.MaxJobsActive > 0 {
		cfg.MaxJobsActive = wc.MaxJobsActive
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	cfg.EmailEnabled = app.Notifications.Email.Enabled
	cfg.SMSEnabled = app.Notifications.SMS.Enabled
	if len(app.Notifications.SMS.FormTypes) > 0 {
		cfg.SMSFormTypes = app.Notifications.SMS.FormTypes
	}
	cfg.SalesEmail = app.Leads.SalesEmail
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.SentTTL <= 0 {
		return fmt.Errorf("sent_ttl must be positive")
	}
	return nil
}

func (c *Config) smsFor(formType string) bool {
	if !c.SMSEnabled {
		return false
	}
	for _, t := range c.SMSFormTypes {
		if t == formType {
			return true
		}
	}
	return false
}
