package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no stray .env

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.True(t, c.DevelopmentMode)
	assert.Equal(t, "123456", c.StaticOTP)
	assert.Equal(t, 10*time.Minute, c.OTPExpiry())
	assert.Zero(t, c.CacheTTL())
	assert.False(t, c.CacheEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "development")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL_SECONDS", "90")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://example.com")
	t.Setenv("DEVELOPMENT_MODE", "false")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")

	c, err := Load()
	require.NoError(t, err)

	assert.True(t, c.IsDev())
	assert.True(t, c.CacheEnabled())
	assert.Equal(t, 90*time.Second, c.CacheTTL())
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, c.CORSOrigins)
	assert.False(t, c.DevelopmentMode)
	assert.Equal(t, 5*time.Second, c.RequestTimeout())
}

func TestLoad_BadNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SMTP_PORT", "twenty-five")

	_, err := Load()
	require.Error(t, err)
}
