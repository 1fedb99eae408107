package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultServerAddress, cfg.Address)
	assert.Equal(t, constants.DefaultMaxBodySizeBytes, cfg.BodySizeBytes())
	assert.InDelta(t, float64(constants.DefaultRateLimitPerSecond), cfg.RateLimit, 0)
	assert.Equal(t, constants.DefaultRateLimitPerSecond, cfg.RateBurst)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, "", cfg.Logging.Level)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultMaxBodySizeBytes, cfg.BodySizeBytes())
	assert.Equal(t, constants.DefaultRateLimitPerSecond, cfg.RateBurst)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	contents := []byte(`address: 127.0.0.1:9000
maxBodySize: 2M
rateLimit: 5
rateBurst: 10
configFile: config.yaml
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
`)
	require.NoError(t, os.WriteFile(path, contents, 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Address)
	assert.Equal(t, int64(2*1024*1024), cfg.BodySizeBytes())
	assert.InDelta(t, 5.0, cfg.RateLimit, 0)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, "config.yaml", cfg.ConfigFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "/tmp/server.log", cfg.Logging.OutputFile)
}

func TestLoadConfigBurstFollowsFractionalRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rateLimit: 0.5\n"), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.RateBurst)
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxBodySize: invalid"), 0600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSetBodySizeBytes(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	cfg.SetBodySizeBytes(0)
	assert.Equal(t, constants.DefaultMaxBodySizeBytes, cfg.BodySizeBytes())

	cfg.SetBodySizeBytes(4096)
	assert.Equal(t, int64(4096), cfg.BodySizeBytes())
	assert.Equal(t, "4096", cfg.MaxBodySize)
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxBodySizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		require.NoError(t, err, "ParseSize(%q)", input)
		assert.Equal(t, expected, got, "ParseSize(%q)", input)
	}

	for _, bad := range []string{"1GB", "abc", "12XB"} {
		_, err := ParseSize(bad)
		assert.Error(t, err, "ParseSize(%q)", bad)
	}
}

func TestLoadConfigExample(t *testing.T) {
	cfg, err := LoadConfig("../../server-config.yaml.example")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, int64(5*1024*1024), cfg.BodySizeBytes())
	assert.Equal(t, 50, cfg.RateBurst)
	assert.Equal(t, "config.yaml", cfg.ConfigFile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}
