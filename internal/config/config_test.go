package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "50051", c.GRPCPort)
	assert.Equal(t, "8080", c.WebPort)
	assert.Equal(t, BackendPostgres, c.Backend)
	assert.Equal(t, "Asia/Hong_Kong", c.Timezone)
	assert.Equal(t, 24*time.Hour, c.Jobs.ReminderWindow)
	assert.Equal(t, 10*time.Second, c.Supabase.Timeout)
	assert.Equal(t, 10, c.RateLimit.Burst)
	require.NoError(t, c.Validate())
}

func TestEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "salon.yaml"), []byte(`
web_port: "9000"
backend: supabase
log:
  level: debug
supabase:
  url: https://from-file.supabase.co
`), 0o600))
	t.Setenv("WEB_PORT", "9100")
	t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "  anon  ")

	c, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "9100", c.WebPort)
	assert.Equal(t, BackendSupabase, c.Backend)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "https://from-file.supabase.co", c.Supabase.URL)
	assert.Equal(t, "anon", c.Supabase.AnonKey)
}

func TestOverridesWin(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "6000")
	c, err := Load("", map[string]any{"port": "7000"})
	require.NoError(t, err)
	assert.Equal(t, "7000", c.GRPCPort)
}

func TestExplicitFileMustExist(t *testing.T) {
	dir := chdirTemp(t)
	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := &Config{Backend: BackendPostgres, DatabaseURL: "postgres://x", Timezone: "Asia/Hong_Kong"}
	assert.EqualError(t, c.Validate(), "JWT_SECRET is required")

	c.JWTSecret = "s"
	require.NoError(t, c.Validate())

	c.Backend = "mysql"
	assert.Error(t, c.Validate())

	c.Backend = BackendSupabase
	c.Timezone = "Mars/Olympus"
	assert.Error(t, c.Validate())
}
