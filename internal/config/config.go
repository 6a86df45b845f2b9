// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "UNIFLOW_"

// Config holds the application configuration.
type Config struct {
	Schedule      ScheduleConfig      `toml:"schedule"`
	Storage       StorageConfig       `toml:"storage"`
	Notifications NotificationsConfig `toml:"notifications"`
	LLM           LLMConfig           `toml:"llm"`
	UI            UIConfig            `toml:"ui"`
	Log           LogConfig           `toml:"log"`
}

// ScheduleConfig holds the weekly grid rules.
type ScheduleConfig struct {
	OpenHour       float64   `toml:"open_hour"`       // first grid row, e.g. 8
	CloseHour      float64   `toml:"close_hour"`      // classes must end by this hour
	PreferredHours []float64 `toml:"preferred_hours"` // auto-placement candidates
	CreditGoal     int       `toml:"credit_goal"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
	Key    string `toml:"key"` // key holding the schedule document
}

// NotificationsConfig controls the toast queue.
type NotificationsConfig struct {
	MaxVisible int    `toml:"max_visible"`
	TTL        string `toml:"ttl"` // Go duration, e.g. "3s"
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider   string `toml:"provider"` // "copilot", "ollama", "lmstudio" or "none"
	Model      string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL    string `toml:"base_url"` // empty uses the provider's local default
	MaxRetries int    `toml:"max_retries"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte", "light"
}

// LogConfig controls the file logger. An empty file disables logging.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			OpenHour:       8,
			CloseHour:      21,
			PreferredHours: []float64{9, 10, 11, 13, 14, 15, 16},
			CreditGoal:     18,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
			Key:    "uniflow-events",
		},
		Notifications: NotificationsConfig{
			MaxVisible: 5,
			TTL:        "3s",
		},
		LLM: LLMConfig{
			Provider:   "copilot",
			Model:      "gpt-4o",
			MaxRetries: 3,
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "uniflow.db"
	}
	return filepath.Join(home, ".local", "share", "uniflow", "uniflow.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "uniflow", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path, reading overrides
// from a .env file in the working directory when one exists.
func LoadFrom(path string) (*Config, error) {
	return LoadFiles(path, ".env")
}

// LoadFiles starts with defaults, overlays the TOML file if it exists, then
// applies overrides from envPath and the process environment. Process
// environment wins over the .env file.
func LoadFiles(path, envPath string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	dotenv, err := readDotEnv(envPath)
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg, lookupEnv(dotenv)); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// readDotEnv parses a .env file without touching the process environment.
// A missing file yields no values.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parsing env file: %w", err)
	}
	return values, nil
}

func lookupEnv(dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

// applyEnvOverrides applies UNIFLOW_* overrides to the config.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	env := func(name string) string { return strings.TrimSpace(getenv(EnvPrefix + name)) }

	// Schedule overrides
	if v := env("OPEN_HOUR"); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sOPEN_HOUR: %w", EnvPrefix, err)
		}
		cfg.Schedule.OpenHour = h
	}
	if v := env("CLOSE_HOUR"); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sCLOSE_HOUR: %w", EnvPrefix, err)
		}
		cfg.Schedule.CloseHour = h
	}
	if v := env("PREFERRED_HOURS"); v != "" {
		hours, err := parseHours(v)
		if err != nil {
			return fmt.Errorf("%sPREFERRED_HOURS: %w", EnvPrefix, err)
		}
		cfg.Schedule.PreferredHours = hours
	}
	if v := env("CREDIT_GOAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCREDIT_GOAL: %w", EnvPrefix, err)
		}
		cfg.Schedule.CreditGoal = n
	}

	// Storage overrides
	if v := env("DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := env("STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}

	// Notification overrides
	if v := env("NOTIFY_MAX_VISIBLE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sNOTIFY_MAX_VISIBLE: %w", EnvPrefix, err)
		}
		cfg.Notifications.MaxVisible = n
	}
	if v := env("NOTIFY_TTL"); v != "" {
		cfg.Notifications.TTL = v
	}

	// LLM overrides
	if v := env("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := env("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := env("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	// UI and log overrides
	if v := env("UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// parseHours reads a comma separated list such as "9,10.5,13".
func parseHours(s string) ([]float64, error) {
	var hours []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	s := c.Schedule
	if s.OpenHour < 0 || s.CloseHour > 24 {
		return errors.New("open_hour and close_hour must be within 0-24")
	}
	if s.OpenHour >= s.CloseHour {
		return errors.New("open_hour must be before close_hour")
	}
	if len(s.PreferredHours) == 0 {
		return errors.New("at least one preferred hour must be configured")
	}
	for _, h := range s.PreferredHours {
		if h < s.OpenHour || h >= s.CloseHour {
			return fmt.Errorf("preferred hour %g is outside %g-%g", h, s.OpenHour, s.CloseHour)
		}
	}
	if s.CreditGoal <= 0 {
		return errors.New("credit_goal must be positive")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Storage.Key == "" {
		return errors.New("storage key must be set")
	}

	if c.Notifications.MaxVisible < 1 {
		return errors.New("notifications.max_visible must be at least 1")
	}
	if _, err := c.Notifications.TTLDuration(); err != nil {
		return err
	}

	if c.LLM.MaxRetries < 0 {
		return errors.New("llm.max_retries must not be negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// TTLDuration parses the notification lifetime.
func (n NotificationsConfig) TTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(n.TTL)
	if err != nil {
		return 0, fmt.Errorf("notifications.ttl must be a duration like \"3s\": %w", err)
	}
	if d <= 0 {
		return 0, errors.New("notifications.ttl must be positive")
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
