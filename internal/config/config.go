// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Bot      BotConfig      `toml:"bot"`
	Database DatabaseConfig `toml:"database"`
	Gate     GateConfig     `toml:"gate"`
	Session  SessionConfig  `toml:"session"`
	Browse   BrowseConfig   `toml:"browse"`
	Upload   UploadConfig   `toml:"upload"`
}

type BotConfig struct {
	Token    string  `toml:"token"`
	Admins   []int64 `toml:"admins"`
	LogLevel string  `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// Duration decodes TOML strings like "24h" or "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// GateConfig controls the channel-membership gate. An empty RequiredChannels
// list disables the gate entirely.
type GateConfig struct {
	RequiredChannels []string `toml:"required_channels"`
	CacheTTL         Duration `toml:"cache_ttl"`
}

type SessionConfig struct {
	TTL           Duration `toml:"ttl"`
	SweepInterval Duration `toml:"sweep_interval"`
}

type BrowseConfig struct {
	PageSize    int `toml:"page_size"`
	SearchLimit int `toml:"search_limit"`
}

type UploadConfig struct {
	AtomicFinalize bool `toml:"atomic_finalize"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	cfg := Config{
		// toml.Decode only touches keys present in the file, so
		// default-true flags are seeded before decoding.
		Upload: UploadConfig{AtomicFinalize: true},
	}
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.LogLevel == "" {
		cfg.Bot.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/cinegram.db"
	}
	if cfg.Gate.CacheTTL.Duration == 0 {
		cfg.Gate.CacheTTL.Duration = 24 * time.Hour
	}
	if cfg.Session.TTL.Duration == 0 {
		cfg.Session.TTL.Duration = 30 * time.Minute
	}
	if cfg.Session.SweepInterval.Duration == 0 {
		cfg.Session.SweepInterval.Duration = 5 * time.Minute
	}
	if cfg.Browse.PageSize == 0 {
		cfg.Browse.PageSize = 10
	}
	if cfg.Browse.SearchLimit == 0 {
		cfg.Browse.SearchLimit = 25
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// ${VAR_NAME:-default} falls back to default when the variable is unset or
// empty. References without a default that cannot be resolved are left
// unchanged and reported in the returned slice.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }

		name, def, hasDefault := strings.Cut(expr, ":-")
		if value := os.Getenv(name); value != "" {
			return value
		}
		if hasDefault {
			return def
		}
		missing = append(missing, name)
		return match
	})
	return result, missing
}
