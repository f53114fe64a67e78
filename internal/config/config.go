// Package config loads ontokit settings from a YAML file, a .env file and
// ONTOKIT_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/kittclouds/ontokit/pkg/moment"
	"github.com/kittclouds/ontokit/pkg/output"
	"github.com/kittclouds/ontokit/pkg/resolver"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "ontokit.yaml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Lang     string `yaml:"lang"`
	ModelDir string `yaml:"model_dir"`
	Train    bool   `yaml:"train"` // train when no model blob exists

	Resolve struct {
		Timezone     string `yaml:"timezone"`      // IANA name, empty for local
		WeekStart    string `yaml:"week_start"`    // weekday name
		DefaultGrain string `yaml:"default_grain"` // grain of "now"
		Kinds        string `yaml:"kinds"`         // comma separated priority order, empty for all
	} `yaml:"resolve"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text or json
	} `yaml:"log"`

	Store struct {
		Driver string `yaml:"driver"` // memory or sqlite
		DSN    string `yaml:"dsn"`
	} `yaml:"store"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{Lang: "en", ModelDir: "models", Train: true}
	cfg.Resolve.WeekStart = "monday"
	cfg.Resolve.DefaultGrain = "second"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Store.Driver = "sqlite"
	cfg.Store.DSN = "ontokit.db"
	return cfg
}

// Load reads settings. An empty path reads DefaultPath when it exists;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config: %w", err)
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set("ONTOKIT_LANG", &c.Lang)
	set("ONTOKIT_MODEL_DIR", &c.ModelDir)
	set("ONTOKIT_TIMEZONE", &c.Resolve.Timezone)
	set("ONTOKIT_WEEK_START", &c.Resolve.WeekStart)
	set("ONTOKIT_KINDS", &c.Resolve.Kinds)
	set("ONTOKIT_LOG_LEVEL", &c.Log.Level)
	set("ONTOKIT_LOG_FORMAT", &c.Log.Format)
	set("ONTOKIT_STORE_DRIVER", &c.Store.Driver)
	set("ONTOKIT_STORE_DSN", &c.Store.DSN)
	if v := getenv("ONTOKIT_TRAIN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: ONTOKIT_TRAIN: %v", ErrInvalid, err)
		}
		c.Train = b
	}
	return nil
}

// Validate checks every derived setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Lang) == "" {
		return fmt.Errorf("%w: empty lang", ErrInvalid)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.WeekStart(); err != nil {
		return err
	}
	if _, err := c.DefaultGrain(); err != nil {
		return err
	}
	if _, err := c.KindOrder(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("%w: store driver %q", ErrInvalid, c.Store.Driver)
	}
	return nil
}

// ============================================================================
// Derived settings
// ============================================================================

// Location returns the configured time zone, local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Resolve.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Resolve.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone: %v", ErrInvalid, err)
	}
	return loc, nil
}

// WeekStart returns the configured first day of the week.
func (c *Config) WeekStart() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.Resolve.WeekStart))
	if name == "" {
		return time.Monday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: week start %q", ErrInvalid, c.Resolve.WeekStart)
}

// DefaultGrain returns the grain of expressions that leave it open.
func (c *Config) DefaultGrain() (moment.Grain, error) {
	if c.Resolve.DefaultGrain == "" {
		return moment.GrainSecond, nil
	}
	g, err := moment.ParseGrain(c.Resolve.DefaultGrain)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return g, nil
}

// KindOrder returns the configured kind priority, output.All when unset.
func (c *Config) KindOrder() ([]output.Kind, error) {
	if strings.TrimSpace(c.Resolve.Kinds) == "" {
		return output.All(), nil
	}
	kinds, err := output.ParseKinds(c.Resolve.Kinds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return kinds, nil
}

// ResolverContext returns a resolution context at ref.
func (c *Config) ResolverContext(ref time.Time) (resolver.Context, error) {
	loc, err := c.Location()
	if err != nil {
		return resolver.Context{}, err
	}
	ws, err := c.WeekStart()
	if err != nil {
		return resolver.Context{}, err
	}
	g, err := c.DefaultGrain()
	if err != nil {
		return resolver.Context{}, err
	}
	return resolver.NewContext(ref.In(loc),
		resolver.WithLocation(loc),
		resolver.WithWeekStart(ws),
		resolver.WithDefaultGrain(g),
	), nil
}

// LogLevel parses the configured level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log level: %v", ErrInvalid, err)
	}
	return l, nil
}

// NewLogger builds the configured slog handler over w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
