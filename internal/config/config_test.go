package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/scriptroom"},
		Server: ServerConfig{Port: "8090"},
		TTS: TTSConfig{
			BaseURL:           "http://127.0.0.1:9880",
			RequestsPerSecond: 2,
			Burst:             1,
			Timeout:           time.Minute,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Environment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "prod"
	assert.Error(t, cfg.Validate())

	cfg.App.Environment = ""
	assert.Error(t, cfg.Validate())

	cfg.App.Environment = "production"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.Logger.Level = "WARN"
	assert.NoError(t, cfg.Validate(), "level check is case-insensitive")
}

func TestValidate_TTS(t *testing.T) {
	cfg := validConfig()
	cfg.TTS.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.TTS.RequestsPerSecond = 0
	assert.Error(t, cfg.Validate())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("SCRIPTROOM_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "SCRIPTROOM_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "SCRIPTROOM_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "SCRIPTROOM_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("SCRIPTROOM_TEST_BOOL", "yes")
	assert.True(t, getBoolConfigValue("", "SCRIPTROOM_TEST_BOOL", false))

	t.Setenv("SCRIPTROOM_TEST_BOOL", "nope")
	assert.False(t, getBoolConfigValue("", "SCRIPTROOM_TEST_BOOL", true))

	assert.True(t, getBoolConfigValue("", "SCRIPTROOM_TEST_BOOL_MISSING", true))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("", "SCRIPTROOM_TEST_DURATION", "45s")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	t.Setenv("SCRIPTROOM_TEST_DURATION", "not-a-duration")
	_, err = parseDurationValue("", "SCRIPTROOM_TEST_DURATION", "45s")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nSCRIPTROOM_ENVFILE_A=hello\nSCRIPTROOM_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("SCRIPTROOM_ENVFILE_A", "")
	t.Setenv("SCRIPTROOM_ENVFILE_B", "")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("SCRIPTROOM_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("SCRIPTROOM_ENVFILE_B"))
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
