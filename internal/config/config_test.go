package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "users.db", cfg.RegistryDB)
	assert.Equal(t, 10*time.Second, cfg.TxTimeout())
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.Equal(t, "sevensystem", cfg.ServiceName)
	assert.Empty(t, cfg.OTelEndpoint)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATA_DIR", "/var/lib/seven")
	t.Setenv("TX_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, filepath.Join("/var/lib/seven", "users.db"), cfg.RegistryPath())
	assert.Equal(t, 3*time.Second, cfg.TxTimeout())
}
