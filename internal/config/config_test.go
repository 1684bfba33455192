package config

import (
	"os"
	"path/filepath"
	"strings"
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
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

// clearEnv unsets every mapped variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envMappings {
		name := strings.ToUpper(key)
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	t.Setenv(ConfigPathEnvVar, "")
	require.NoError(t, os.Unsetenv(ConfigPathEnvVar))
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "codetrack", cfg.Mongo.DBName)
	assert.Equal(t, "* * * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 10, cfg.API.DefaultPageSize)
	assert.Equal(t, 100, cfg.API.MaxPageSize)
	assert.Equal(t, ":5001", cfg.Addr())
	assert.False(t, cfg.MailConfigured())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173,https://tracker.example.com")
	t.Setenv("SMTP_USER", "bot@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("REMINDER_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, []string{"http://localhost:5173", "https://tracker.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.False(t, cfg.Reminder.Enabled)
	assert.True(t, cfg.MailConfigured())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	path := filepath.Join(dir, "tracker.yaml")
	content := []byte("mongo:\n  db_name: fromfile\nsmtp:\n  host: mail.example.com\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("SMTP_HOST", "env.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "fromfile", cfg.Mongo.DBName)
	assert.Equal(t, "env.example.com", cfg.SMTP.Host)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Mongo.URI = ""
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.API.MaxPageSize = 5
	assert.Error(t, cfg.Validate())
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "mongo.uri", envTransformFunc("MONGO_URI"))
	assert.Equal(t, "reminder.default_email", envTransformFunc("DEFAULT_REMINDER_EMAIL"))
	assert.Equal(t, "", envTransformFunc("HOME"))
}
