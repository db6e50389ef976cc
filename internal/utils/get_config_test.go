package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_YamlThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"APP_PORT: \"8080\"\nHISTORY_DRIVER: postgres\nINFERENCE_TIMEOUT: 5s\n",
	), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("HISTORY_DRIVER", "file")

	LoadConfig()

	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, "file", GetConfig("HISTORY_DRIVER"))
	assert.Equal(t, "database.json", GetConfig("HISTORY_FILE"))
	assert.Equal(t, 5*time.Second, GetDurationConfig("INFERENCE_TIMEOUT", time.Minute))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

func TestTypedConfigFallbacks(t *testing.T) {
	config = defaultConfig()
	config.SMTPPort = "not-a-port"
	t.Cleanup(func() { config = defaultConfig() })

	assert.Equal(t, 25, GetIntConfig("SMTP_PORT", 25))
	assert.Equal(t, time.Minute, GetDurationConfig("APP_URL", time.Minute))
}
