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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
  public_base_url: https://learn.example.com/
database:
  driver: sqlite
  path: ":memory:"
jwt:
  secret: dev
  expire_hours: 2
storage:
  type: minio
stripe:
  secret_key: sk_test_123
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://learn.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, 60, cfg.RateLimit.VerifyMaxRequests)
}

func TestLoadConfigReleaseChecks(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "short jwt secret",
			body: `
server:
  mode: release
jwt:
  secret: short
`,
			wantErr: true,
		},
		{
			name: "stripe key without webhook secret",
			body: `
server:
  mode: release
jwt:
  secret: 0123456789abcdef0123456789abcdef
stripe:
  secret_key: sk_live_123
`,
			wantErr: true,
		},
		{
			name: "valid release config",
			body: `
server:
  mode: release
jwt:
  secret: 0123456789abcdef0123456789abcdef
stripe:
  secret_key: sk_live_123
  webhook_secret: whsec_123
storage:
  type: minio
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
