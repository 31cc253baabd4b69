package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:5555", cfg.Address())
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, 101, cfg.StartStage)
	assert.Equal(t, 100, cfg.BaseHP)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, uint32(65536), cfg.MaxFrameSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TD_PORT", "9000")
	t.Setenv("TD_START_STAGE", "202")
	t.Setenv("TD_LOCALE", "ko-KR")
	t.Setenv("TD_IDLE_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.Address())
	assert.Equal(t, 202, cfg.StartStage)
	assert.Equal(t, "ko-KR", cfg.Locale)
	assert.Equal(t, 5*time.Second, cfg.IdleTimeout)
}

func TestLoadDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TD_BASE_HP=250\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TD_BASE_HP") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.BaseHP)
}

func TestLoadMissingDotenvIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TD_START_STAGE", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveSettings(t *testing.T) {
	cases := map[string]string{
		"TD_START_STAGE":    "0",
		"TD_BASE_HP":        "0",
		"TD_MAX_FRAME_SIZE": "0",
		"TD_WRITE_TIMEOUT":  "0s",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}

	t.Run("negative base hp", func(t *testing.T) {
		t.Setenv("TD_BASE_HP", "-5")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestValidateAfterFlagOverride(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.StartStage = 0
	assert.Error(t, cfg.Validate())
}
