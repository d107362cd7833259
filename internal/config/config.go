// Package config loads streakd configuration from ~/.streakd/config.toml,
// an optional .env file and STREAKD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/streakd/streakd/internal/domain"
)

const (
	// ConfigDir is the name of the config directory in home
	ConfigDir = ".streakd"

	// ConfigFileName is the name of the config file
	ConfigFileName = "config.toml"

	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 7433

	// DefaultXPPerCompletion is the XP awarded for each accepted completion
	DefaultXPPerCompletion = 10

	// DefaultLevelBase is the base of the default level curve
	DefaultLevelBase = 100
)

// Environment variables that override file settings.
const (
	EnvBind     = "STREAKD_BIND"
	EnvDBDriver = "STREAKD_DB_DRIVER"
	EnvDBDSN    = "STREAKD_DB_DSN"
	EnvTimezone = "STREAKD_TIMEZONE"
	EnvLogLevel = "STREAKD_LOG_LEVEL"
	EnvUser     = "STREAKD_USER"
	EnvDotEnv   = "STREAKD_ENV_FILE"
)

// Config is the fully resolved configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Engine   EngineConfig   `toml:"engine"`
	Users    UsersConfig    `toml:"users"`
	Log      LogConfig      `toml:"log"`
	Client   ClientConfig   `toml:"client"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `toml:"driver"`
	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string `toml:"dsn"`
}

type EngineConfig struct {
	Timezone        string `toml:"timezone"`
	XPPerCompletion int64  `toml:"xp_per_completion"`
	LevelCurve      string `toml:"level_curve"`
	LevelBase       int64  `toml:"level_base"`
}

type UsersConfig struct {
	ArchiveCompletionsOnDelete bool `toml:"archive_completions_on_delete"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"`
}

type ClientConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	User string `toml:"user"`
}

// Options controls where configuration is read from.
type Options struct {
	// HomeDir replaces the user's home directory. Useful for testing.
	HomeDir string
	// Path is an explicit config file. When set, the file must exist.
	Path string
	// DotEnvPath is the .env file to read. Empty means ".env" in the working directory.
	DotEnvPath string
	// LookupEnv replaces os.LookupEnv. Useful for testing.
	LookupEnv func(string) (string, bool)
}

// Default returns the built-in configuration rooted at homeDir.
func Default(homeDir string) *Config {
	return &Config{
		Server: ServerConfig{
			Bind: fmt.Sprintf("%s:%d", DefaultServerHost, DefaultServerPort),
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(homeDir, ConfigDir, "streakd.db"),
		},
		Engine: EngineConfig{
			Timezone:        "UTC",
			XPPerCompletion: DefaultXPPerCompletion,
			LevelCurve:      string(domain.CurveTriangular),
			LevelBase:       DefaultLevelBase,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Client: ClientConfig{
			Host: DefaultServerHost,
			Port: DefaultServerPort,
		},
	}
}

// Load resolves configuration from the default locations, or from path when
// it is non-empty.
func Load(path string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadWithOptions(Options{HomeDir: homeDir, Path: path})
}

// LoadWithOptions resolves configuration with precedence
// defaults, then the TOML file, then .env, then the process environment.
func LoadWithOptions(opts Options) (*Config, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := Default(opts.HomeDir)

	configPath := opts.Path
	required := configPath != ""
	if configPath == "" {
		configPath = filepath.Join(opts.HomeDir, ConfigDir, ConfigFileName)
	}
	if err := cfg.decodeFile(configPath, required); err != nil {
		return nil, err
	}

	dotEnvPath := opts.DotEnvPath
	if dotEnvPath == "" {
		if v, ok := lookup(EnvDotEnv); ok && v != "" {
			dotEnvPath = v
		} else {
			dotEnvPath = ".env"
		}
	}
	dotEnv, err := readDotEnv(dotEnvPath)
	if err != nil {
		return nil, err
	}

	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotEnv[key]
		return v, ok
	}
	cfg.applyEnv(env)

	cfg.Database.DSN = expandHome(cfg.Database.DSN, opts.HomeDir)
	cfg.Log.File = expandHome(cfg.Log.File, opts.HomeDir)

	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	meta, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("failed to parse config TOML %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// readDotEnv returns the variables of a .env file, or nothing if it is absent.
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return vars, nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) {
	if v, ok := env(EnvBind); ok && v != "" {
		c.Server.Bind = v
	}
	if v, ok := env(EnvDBDriver); ok && v != "" {
		c.Database.Driver = v
	}
	if v, ok := env(EnvDBDSN); ok && v != "" {
		c.Database.DSN = v
	}
	if v, ok := env(EnvTimezone); ok && v != "" {
		c.Engine.Timezone = v
	}
	if v, ok := env(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := env(EnvUser); ok {
		c.Client.User = v
	}
}

func expandHome(p, homeDir string) string {
	if p == "~" {
		return homeDir
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir, p[2:])
	}
	return p
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if _, port, err := splitBind(c.Server.Bind); err != nil {
		problems = append(problems, fmt.Sprintf("server.bind: %v", err))
	} else if port < 0 || port > 65535 {
		problems = append(problems, fmt.Sprintf("server.bind: port %d out of range", port))
	}

	switch c.Database.Driver {
	case "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		problems = append(problems, fmt.Sprintf("database.driver: unsupported driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		problems = append(problems, "database.dsn: must not be empty")
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("engine.timezone: %v", err))
	}
	if c.Engine.XPPerCompletion <= 0 {
		problems = append(problems, "engine.xp_per_completion: must be positive")
	}
	if _, err := c.Threshold(); err != nil {
		problems = append(problems, fmt.Sprintf("engine.level_curve: %v", err))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level: unsupported level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		problems = append(problems, fmt.Sprintf("log.format: unsupported format %q", c.Log.Format))
	}

	if c.Client.Port < 1 || c.Client.Port > 65535 {
		problems = append(problems, fmt.Sprintf("client.port: %d out of range", c.Client.Port))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the reference timezone for period boundaries.
func (c *Config) Location() (*time.Location, error) {
	if c.Engine.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Engine.Timezone)
}

// Threshold returns the configured level curve.
func (c *Config) Threshold() (domain.ThresholdFunc, error) {
	return domain.ThresholdFor(domain.LevelCurve(c.Engine.LevelCurve), c.Engine.LevelBase)
}

func splitBind(bind string) (string, int, error) {
	i := strings.LastIndex(bind, ":")
	if i < 0 {
		return "", 0, fmt.Errorf("%q is not host:port", bind)
	}
	port, err := strconv.Atoi(bind[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("%q has an invalid port", bind)
	}
	return bind[:i], port, nil
}
