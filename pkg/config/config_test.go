package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/skijump/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultsValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
	assert.Equal(t, 20, cfg.Render.MaxEntries)
	assert.Equal(t, 44, cfg.Render.AvatarSize)
	assert.Equal(t, uint64(42), cfg.Render.Seed)
	assert.Equal(t, []string{"html"}, cfg.Render.Formats)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "skijump.toml", `
log_level = "debug"

[render]
metric_label = "처리 건수"
higher_is_better = true
max_entries = 10
formats = ["html", "svg"]

[cache]
backend = "none"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "처리 건수", cfg.Render.MetricLabel)
	assert.True(t, cfg.Render.HigherIsBetter)
	assert.Equal(t, 10, cfg.Render.MaxEntries)
	assert.Equal(t, []string{"html", "svg"}, cfg.Render.Formats)
	assert.Equal(t, BackendNone, cfg.Cache.Backend)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	// Unset keys keep their defaults.
	assert.Equal(t, 44, cfg.Render.AvatarSize)
	assert.Equal(t, 10, cfg.Server.MaxUploadMB)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "skijump.yaml", `
render:
  avatar_size: 60
  hide_rank: true
cache:
  backend: redis
  redis_url: redis://localhost:6379/0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Render.AvatarSize)
	assert.True(t, cfg.Render.HideRank)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
}

func TestLoadEmptyYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "skijump.yml", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults().Render, cfg.Render)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"unknown toml key", "a.toml", "[render]\ncolour = \"red\"\n", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "b.yaml", "render:\n  colour: red\n", errors.ErrCodeInvalidConfig},
		{"bad toml", "c.toml", "[render\n", errors.ErrCodeInvalidConfig},
		{"bad backend", "d.toml", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"redis without url", "e.toml", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"max out of range", "f.toml", "[render]\nmax_entries = 99\n", errors.ErrCodeInvalidConfig},
		{"bad format", "g.toml", "[render]\nformats = [\"gif\"]\n", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(path)
			assert.True(t, errors.Is(err, tt.code), "error = %v", err)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "error = %v", err)
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvRedisURL, "")

	t.Run("explicit path wins", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "x.toml", "[render]\nseed = 7\n")
		cfg, used, err := Resolve(path)
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, uint64(7), cfg.Render.Seed)
	})

	t.Run("explicit missing is an error", func(t *testing.T) {
		_, _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("environment variable", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "env.yaml", "render:\n  seed: 9\n")
		t.Setenv(EnvConfig, path)
		cfg, used, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, uint64(9), cfg.Render.Seed)
	})

	t.Run("working directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "skijump.toml", "[render]\nseed = 11\n")
		t.Chdir(dir)
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, used, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "skijump.toml", used)
		assert.Equal(t, uint64(11), cfg.Render.Seed)
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Chdir(t.TempDir())
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		path := writeFile(t, xdg, filepath.Join("skijump", "config.toml"), "[render]\nseed = 13\n")

		cfg, used, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Equal(t, uint64(13), cfg.Render.Seed)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv(EnvRedisURL, "redis://cache:6379")

		cfg, used, err := Resolve("")
		require.NoError(t, err)
		assert.Empty(t, used)
		assert.Equal(t, Defaults().Render, cfg.Render)
		assert.Equal(t, "redis://cache:6379", cfg.Cache.RedisURL)
	})
}

func TestRenderOptions(t *testing.T) {
	r := Defaults().Render
	r.HigherIsBetter = true
	r.Formats = []string{"svg"}

	opts := r.Options()
	assert.False(t, opts.LowerIsBetter())
	assert.Equal(t, []string{"svg"}, opts.Formats)

	opts.Formats[0] = "json"
	assert.Equal(t, "svg", r.Formats[0], "Options must copy the format slice")

	r.Seed = 0
	opts = r.Options()
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, uint64(0), opts.SeedValue(), "seed 0 from the file is kept")
}

func TestExampleConfigs(t *testing.T) {
	t.Setenv(EnvRedisURL, "")

	cfg, err := Load(filepath.Join("..", "..", "examples", "skijump.toml"))
	require.NoError(t, err)
	assert.Equal(t, "CALL CENTER SKI JUMP", cfg.Render.Title)
	assert.Equal(t, []string{"html", "svg"}, cfg.Render.Formats)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)

	cfg, err = Load(filepath.Join("..", "..", "examples", "skijump.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Render.HigherIsBetter)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "league", cfg.Cache.Prefix)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Server.MaxUploadMB, "unset keys keep defaults")
}
