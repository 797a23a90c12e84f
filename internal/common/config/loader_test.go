package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
database:
  postgres:
    host: db.internal
    database: fiscal_forum
    user: app
  redis:
    address: cache.internal:6379
workers:
  crm-lead-create:
    enabled: true
  update-lead-status:
    enabled: false
    timeout: 2000
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "fiscal-forum", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "lead-intake", cfg.Camunda.ProcessID)
	assert.Equal(t, 24*time.Hour, cfg.Leads.DedupeTTL())
	assert.Equal(t, "lead:dedupe:", cfg.Leads.DedupeKeyPrefix)
	assert.Equal(t, "credit_cards", cfg.Catalog.Index)
	assert.Equal(t, "https://www.zohoapis.com/crm/v3", cfg.Integrations.Zoho.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)

	crm := cfg.Workers["crm-lead-create"]
	assert.Equal(t, 5, crm.MaxJobsActive)
	assert.Equal(t, 30000, crm.Timeout)
	assert.Equal(t, 3, crm.MaxRetries)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("FF_TEST_DB_HOST", "pg.example.com")

	cfg, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: ${FF_TEST_DB_HOST}
    database: fiscal_forum
    user: app
  redis:
    address: localhost:6379
`))
	require.NoError(t, err)
	assert.Equal(t, "pg.example.com", cfg.Database.Postgres.Host)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing postgres host",
			body:    "database:\n  postgres:\n    database: x\n    user: y\n  redis:\n    address: r:6379\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "missing redis",
			body:    "database:\n  postgres:\n    host: h\n    database: x\n    user: y\n",
			wantErr: "database.redis.address is required",
		},
		{
			name: "camunda enabled without broker",
			body: minimalConfig + "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "elasticsearch enabled without address",
			body:    "database:\n  postgres:\n    host: h\n    database: x\n    user: y\n  redis:\n    address: r:6379\n  elasticsearch:\n    enabled: true\n",
			wantErr: "database.elasticsearch.addresses or url is required",
		},
		{
			name: "valid",
			body: minimalConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	wc := GetWorkerConfig(cfg, "update-lead-status")
	assert.False(t, wc.Enabled)
	assert.Equal(t, 2000, wc.Timeout)
	assert.False(t, IsWorkerEnabled(cfg, "update-lead-status"))

	unknown := GetWorkerConfig(cfg, "not-configured")
	assert.True(t, unknown.Enabled)
	assert.Equal(t, 5, unknown.MaxJobsActive)
	assert.True(t, IsWorkerEnabled(cfg, "not-configured"))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "h", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "require"}
	assert.Equal(t, "host=h port=5433 user=u password=p dbname=d sslmode=require", p.GetDSN())
}

func TestElasticsearchConfig_GetAddresses(t *testing.T) {
	assert.Equal(t, []string{"http://a:9200"}, ElasticsearchConfig{URL: "http://a:9200"}.GetAddresses())
	assert.Equal(t, []string{"http://b:9200"}, ElasticsearchConfig{URL: "http://a:9200", Addresses: []string{"http://b:9200"}}.GetAddresses())
	assert.Nil(t, ElasticsearchConfig{}.GetAddresses())
}
