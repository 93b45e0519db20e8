package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/fixtures"
)

// inTempDir runs the test from an empty working directory.
func inTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { os.Chdir(oldWd) })
	return tmpDir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, 0.1, cfg.NullProbability)
	assert.Equal(t, []string{"Default"}, cfg.Groups)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, 8, cfg.Collection.MaxSize)
	assert.Equal(t, 16, cfg.String.MaxLength)
}

func TestLoadWithConfigFile(t *testing.T) {
	inTempDir(t)

	configContent := `
seed: 42
null_probability: 0.5
groups: [Default, strict]
log_level: debug
max_depth: 2
collection:
  max_size: 3
string:
  max_length: 5
`
	require.NoError(t, os.WriteFile("fixtures.yml", []byte(configContent), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 0.5, cfg.NullProbability)
	assert.Equal(t, []string{"Default", "strict"}, cfg.Groups)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, 3, cfg.Collection.MaxSize)
	assert.Equal(t, 5, cfg.String.MaxLength)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Seed)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	inTempDir(t)
	t.Setenv("FIXTURES_SEED", "11")
	t.Setenv("FIXTURES_COLLECTION_MAX_SIZE", "2")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), cfg.Seed)
	assert.Equal(t, 2, cfg.Collection.MaxSize)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"probability above one", "null_probability: 1.5\n"},
		{"negative probability", "null_probability: -0.1\n"},
		{"negative depth", "max_depth: -1\n"},
		{"negative collection size", "collection:\n  max_size: -1\n"},
		{"negative string length", "string:\n  max_length: -2\n"},
		{"unknown log level", "log_level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			require.NoError(t, os.WriteFile("fixtures.yml", []byte(tt.content), 0644))

			_, err := Load("")
			assert.True(t, errors.Is(err, errors.ErrIllegalArgument), "got %v", err)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := &Config{
		Seed:            5,
		NullProbability: 0,
		Groups:          []string{"Default"},
		LogLevel:        "info",
		MaxDepth:        3,
		Collection:      CollectionConfig{MaxSize: 2},
		String:          StringConfig{MaxLength: 4},
	}

	opts, err := cfg.Options()
	require.NoError(t, err)

	ctx := fixtures.New(opts...)
	assert.Equal(t, 3, ctx.Env().MaxDepth)
	assert.Equal(t, 2, ctx.Env().MaxSize)
	assert.Equal(t, 4, ctx.Env().MaxLength)

	a, err := fixtures.Random[[]string](ctx)
	require.NoError(t, err)
	b, err := fixtures.Random[[]string](fixtures.New(opts...))
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed, same values")

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
