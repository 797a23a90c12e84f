package crmleadcreate

import (
	"fmt"
	"time"

	"fiscal-forum/internal/common/config"
)

type Config struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxJobsActive    int           `mapstructure:"max_jobs_active"`
	Timeout          time.Duration `mapstructure:"timeout"`
	LeadSourcePrefix string        `mapstructure:"lead_source_prefix"`
	LeadStatus       string        `mapstructure:"lead_status"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:          true,
		MaxJobsActive:    5,
		Timeout:          30 * time.Second,
		LeadSourcePrefix: "Fiscal Forum",
		LeadStatus:       "Not Contacted",
	}
}

// ConfigFromApp applies the workers.crm-lead-create section over the defaults.
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
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.LeadSourcePrefix == "" {
		return fmt.Errorf("lead_source_prefix is required")
	}
	return nil
}
