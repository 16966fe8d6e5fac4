package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Harvester.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Harvester.RetryDelay)
	assert.Equal(t, 20, cfg.Harvester.PageSize)
	assert.Equal(t, 100, cfg.Harvester.MaxResults)
	assert.Equal(t, "https://www.naukri.com", cfg.Naukri.BaseURL)
	assert.Equal(t, "/jobapi/v2/search", cfg.Naukri.SearchPath)
	assert.NotEmpty(t, cfg.Naukri.UserAgents)
	assert.Equal(t, []string{"csv", "xlsx"}, cfg.Export.Formats)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9090
harvester:
  max_retries: 5
  max_results: 250
naukri:
  base_url: https://staging.example.com
export:
  output_dir: /tmp/harvests
  formats:
    - csv
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Harvester.MaxRetries)
	assert.Equal(t, 250, cfg.Harvester.MaxResults)
	assert.Equal(t, "https://staging.example.com", cfg.Naukri.BaseURL)
	assert.Equal(t, "/tmp/harvests", cfg.Export.OutputDir)
	assert.Equal(t, []string{"csv"}, cfg.Export.Formats)
	assert.Equal(t, 20, cfg.Harvester.PageSize, "unset values keep defaults")
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("HARVEST_BASE_URL", "https://mirror.example.com")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
naukri:
  base_url: ${HARVEST_BASE_URL}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.com", cfg.Naukri.BaseURL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("NAUKRI_BASE_URL", "https://override.example.com")
	t.Setenv("HARVESTER_MAX_RETRIES", "7")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "https://override.example.com", cfg.Naukri.BaseURL)
	assert.Equal(t, 7, cfg.Harvester.MaxRetries)
	assert.True(t, cfg.Redis.Enabled)
}
