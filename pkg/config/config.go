// Package config loads skijump settings from a TOML or YAML file.
//
// The file supplies defaults for render options, the cache backend and the
// HTTP server. Command-line flags that are set explicitly take precedence;
// the CLI applies them on top of the loaded [Config].
//
// Lookup order when no path is given:
//
//  1. $SKIJUMP_CONFIG
//  2. ./skijump.toml, ./skijump.yaml, ./skijump.yml
//  3. $XDG_CONFIG_HOME/skijump/config.toml (or ~/.config/skijump/config.toml)
//
// A missing file is not an error unless the path was given explicitly.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/skijump/pkg/errors"
	"github.com/matzehuels/skijump/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// EnvConfig names the environment variable holding a config path.
const EnvConfig = "SKIJUMP_CONFIG"

// EnvRedisURL overrides cache.redis_url.
const EnvRedisURL = "SKIJUMP_REDIS_URL"

// Config holds all file-provided settings.
type Config struct {
	LogLevel string       `toml:"log_level" yaml:"log_level"`
	Render   RenderConfig `toml:"render" yaml:"render"`
	Cache    CacheConfig  `toml:"cache" yaml:"cache"`
	Server   ServerConfig `toml:"server" yaml:"server"`
}

// RenderConfig mirrors the user-facing render options.
type RenderConfig struct {
	MetricLabel    string   `toml:"metric_label" yaml:"metric_label"`
	Title          string   `toml:"title" yaml:"title"`
	Subtitle       string   `toml:"subtitle" yaml:"subtitle"`
	HigherIsBetter bool     `toml:"higher_is_better" yaml:"higher_is_better"`
	AvatarSize     int      `toml:"avatar_size" yaml:"avatar_size"`
	HideRank       bool     `toml:"hide_rank" yaml:"hide_rank"`
	MaxEntries     int      `toml:"max_entries" yaml:"max_entries"`
	Seed           uint64   `toml:"seed" yaml:"seed"`
	Formats        []string `toml:"formats" yaml:"formats"`
	EmbedImages    bool     `toml:"embed_images" yaml:"embed_images"`
	PNGScale       float64  `toml:"png_scale" yaml:"png_scale"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// ServerConfig configures `skijump serve`.
type ServerConfig struct {
	Addr        string `toml:"addr" yaml:"addr"`
	MaxUploadMB int    `toml:"max_upload_mb" yaml:"max_upload_mb"`
}

// Defaults returns a Config with all default values set.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Render: RenderConfig{
			MetricLabel: pipeline.DefaultMetricLabel,
			AvatarSize:  pipeline.DefaultAvatarSize,
			MaxEntries:  pipeline.DefaultMaxEntries,
			Seed:        pipeline.DefaultSeed,
			Formats:     []string{pipeline.FormatHTML},
			PNGScale:    pipeline.DefaultPNGScale,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 10,
		},
	}
}

// Load reads the config file at path. The format is chosen by extension:
// .yaml and .yml are YAML, everything else is TOML.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := decode(data, path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve finds and loads the config file. explicit, if non-empty, must
// exist. When no file is found, Resolve returns Defaults and an empty path.
func Resolve(explicit string) (Config, string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}

	cfg := Defaults()
	cfg.applyEnv()
	return cfg, "", nil
}

// SearchPaths lists the implicit config locations in lookup order.
func SearchPaths() []string {
	paths := []string{"skijump.toml", "skijump.yaml", "skijump.yml"}
	if dir := userConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "skijump", "config.toml"))
	}
	return paths
}

// Validate checks backend names and render bounds.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}

	if c.Server.MaxUploadMB < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_upload_mb must not be negative")
	}

	opts := c.Render.Options()
	opts.Demo = true
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render: %s", errors.UserMessage(err))
	}
	return nil
}

// Options converts the render section into pipeline options.
func (r RenderConfig) Options() pipeline.Options {
	return pipeline.Options{
		MetricLabel:    r.MetricLabel,
		Title:          r.Title,
		Subtitle:       r.Subtitle,
		HigherIsBetter: r.HigherIsBetter,
		AvatarSize:     r.AvatarSize,
		HideRank:       r.HideRank,
		MaxEntries:     r.MaxEntries,
		Seed:           pipeline.SeedOf(r.Seed),
		Formats:        append([]string(nil), r.Formats...),
		EmbedImages:    r.EmbedImages,
		PNGScale:       r.PNGScale,
	}
}

func decode(data []byte, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return err
		}
		return nil
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
		return nil
	}
}

func (c *Config) applyEnv() {
	if url := os.Getenv(EnvRedisURL); url != "" {
		c.Cache.RedisURL = url
	}
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
