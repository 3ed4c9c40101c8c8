package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lottolab/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "PORT", "FDR_LEVEL", "INCLUDE_BONUS", "ROLLING_WINDOW",
		"LOOKBACK", "SEED", "REFRESH_SCHEDULE", "REFRESH_DEBOUNCE", "HISTORY_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Analysis.FDRLevel)
	assert.Equal(t, 100, cfg.Analysis.RollingWindow)
	assert.Equal(t, 200, cfg.Analysis.Lookback)
	assert.Equal(t, int64(42), cfg.Analysis.Seed)
	assert.False(t, cfg.Analysis.IncludeBonus)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestYAMLThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "lottolab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  url: postgres://u:p@localhost/lotto
analysis:
  fdr_level: 0.1
  include_bonus: true
refresh:
  schedule: "0 21 * * 6"
  debounce: 2s
`), 0o644))

	t.Setenv("FDR_LEVEL", "0.01")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost/lotto", cfg.Database.URL)
	assert.True(t, cfg.Analysis.IncludeBonus)
	assert.Equal(t, 0.01, cfg.Analysis.FDRLevel, "env wins over file")
	assert.Equal(t, "0 21 * * 6", cfg.Refresh.Schedule)
	assert.Equal(t, 2*time.Second, cfg.Refresh.Debounce)
}

func TestValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("FDR_LEVEL", "1.5")
	_, err := LoadFile("")
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	t.Setenv("FDR_LEVEL", "")
	t.Setenv("REFRESH_SCHEDULE", "every tuesday")
	_, err = LoadFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
