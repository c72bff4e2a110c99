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
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Data: DataConfig{
			BasePath: "/some/path",
		},
		Realtime: RealtimeConfig{
			PingInterval: 30 * time.Second,
			PongTimeout:  60 * time.Second,
		},
		Sync: SyncConfig{
			BufferCapacity: 1000,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_SyncBufferCapacity(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.BufferCapacity = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_PongTimeoutMustExceedPingInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Realtime.PongTimeout = cfg.Realtime.PingInterval
	assert.Error(t, cfg.Validate())
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	expanded, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", expanded)
}

func TestExpandPath_TildeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data"), expanded)
}

func TestExpandPath_AbsolutePath(t *testing.T) {
	expanded, err := expandPath("/already/absolute", "")
	require.NoError(t, err)
	assert.Equal(t, "/already/absolute", expanded)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("BOOKSPHERE_TEST_VALUE", "from-env")

	// Flag wins over env.
	assert.Equal(t, "from-flag", getConfigValue("from-flag", "BOOKSPHERE_TEST_VALUE", "default"))
	// Env wins over default.
	assert.Equal(t, "from-env", getConfigValue("", "BOOKSPHERE_TEST_VALUE", "default"))
	// Default when nothing else is set.
	assert.Equal(t, "default", getConfigValue("", "BOOKSPHERE_TEST_UNSET", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("BOOKSPHERE_TEST_INT", "42")
	assert.Equal(t, 42, getIntConfigValue("", "BOOKSPHERE_TEST_INT", 7))

	t.Setenv("BOOKSPHERE_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getIntConfigValue("", "BOOKSPHERE_TEST_INT", 7))
}

func TestGetFloatConfigValue(t *testing.T) {
	t.Setenv("BOOKSPHERE_TEST_FLOAT", "1.5")
	assert.Equal(t, 1.5, getFloatConfigValue("", "BOOKSPHERE_TEST_FLOAT", 2.0))

	assert.Equal(t, 2.0, getFloatConfigValue("", "BOOKSPHERE_TEST_FLOAT_UNSET", 2.0))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nBOOKSPHERE_ENVFILE_KEY=hello\n\nBOOKSPHERE_ENVFILE_QUOTED=\"world\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("BOOKSPHERE_ENVFILE_KEY")
		os.Unsetenv("BOOKSPHERE_ENVFILE_QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("BOOKSPHERE_ENVFILE_KEY"))
	assert.Equal(t, "world", os.Getenv("BOOKSPHERE_ENVFILE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("NOT A VALID LINE\n"), 0o600))

	assert.Error(t, loadEnvFile(envPath))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("BOOKSPHERE_ENVFILE_KEEP=file\n"), 0o600))

	t.Setenv("BOOKSPHERE_ENVFILE_KEEP", "env")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "env", os.Getenv("BOOKSPHERE_ENVFILE_KEEP"))
}
