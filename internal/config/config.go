// Package config loads settings from the environment (.env aware) and an optional TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultPath is read when no file is given and silently skipped when missing.
const DefaultPath = "option_book.toml"

// Portfolio sources.
const (
	SourceAlpaca = "alpaca"
	SourceFile   = "file"
)

// secretVars are never printed in full.
var secretVars = map[string]bool{
	"APCA_API_KEY_ID":     true,
	"APCA_API_SECRET_KEY": true,
	"TELEGRAM_BOT_TOKEN":  true,
}

// Config is the merged configuration. Environment variables override the file.
type Config struct {
	Source   string `toml:"source"`   // alpaca or file
	Snapshot string `toml:"snapshot"` // snapshot path for the file source

	Report struct {
		Format            string `toml:"format"`
		Currency          string `toml:"currency"`
		GlamourStyle      string `toml:"glamour_style"`
		WordWrap          int    `toml:"word_wrap"`
		UnderlyingTimeout int    `toml:"underlying_timeout_sec"`
	} `toml:"report"`

	Log struct {
		Level      string `toml:"level"`
		File       string `toml:"file"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
	} `toml:"log"`

	Telegram struct {
		Enabled  bool   `toml:"enabled"`
		BotToken string `toml:"-"`
		ChatID   string `toml:"-"`
	} `toml:"telegram"`

	Alpaca struct {
		KeyID     string `toml:"-"`
		SecretKey string `toml:"-"`
		BaseURL   string `toml:"-"`
	} `toml:"-"`
}

// Overrides are command line values. They win over the environment and the file.
type Overrides struct {
	Source   string
	Snapshot string // implies the file source unless Source is set
	LogLevel string
}

// Load reads .env into the process environment, decodes the TOML file at path (DefaultPath
// when empty), applies environment and flag overrides and defaults, and validates the result.
func Load(path string, flags Overrides) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	var cfg Config
	if path == "" {
		path = DefaultPath
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyOverrides(&cfg, flags)
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Source, "OPTBOOK_SOURCE")
	setString(&cfg.Snapshot, "OPTBOOK_SNAPSHOT")
	setString(&cfg.Report.Format, "OPTBOOK_FORMAT")
	setString(&cfg.Report.Currency, "OPTBOOK_CURRENCY")
	setString(&cfg.Report.GlamourStyle, "OPTBOOK_GLAMOUR_STYLE")
	cfg.Report.UnderlyingTimeout = getEnvAsInt("OPTBOOK_UNDERLYING_TIMEOUT_SEC", cfg.Report.UnderlyingTimeout)
	setString(&cfg.Log.Level, "OPTBOOK_LOG_LEVEL")
	setString(&cfg.Log.File, "OPTBOOK_LOG_FILE")
	cfg.Log.MaxSizeMB = getEnvAsInt("OPTBOOK_LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = getEnvAsInt("OPTBOOK_LOG_MAX_BACKUPS", cfg.Log.MaxBackups)
	cfg.Telegram.Enabled = getEnvAsBool("OPTBOOK_TELEGRAM", cfg.Telegram.Enabled)

	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.Alpaca.KeyID = os.Getenv("APCA_API_KEY_ID")
	cfg.Alpaca.SecretKey = os.Getenv("APCA_API_SECRET_KEY")
	cfg.Alpaca.BaseURL = os.Getenv("APCA_API_BASE_URL")
}

func applyOverrides(cfg *Config, flags Overrides) {
	if flags.Snapshot != "" {
		cfg.Snapshot = flags.Snapshot
		cfg.Source = SourceFile
	}
	if flags.Source != "" {
		cfg.Source = flags.Source
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = SourceAlpaca
		if cfg.Snapshot != "" {
			cfg.Source = SourceFile
		}
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "text"
	}
	if cfg.Report.Currency == "" {
		cfg.Report.Currency = "USD"
	}
	if cfg.Report.WordWrap <= 0 {
		cfg.Report.WordWrap = 120
	}
	if cfg.Report.UnderlyingTimeout <= 0 {
		cfg.Report.UnderlyingTimeout = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 5
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 3
	}
}

func validate(cfg *Config) error {
	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	cfg.Report.Currency = strings.ToUpper(strings.TrimSpace(cfg.Report.Currency))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	switch cfg.Source {
	case SourceAlpaca:
	case SourceFile:
		if strings.TrimSpace(cfg.Snapshot) == "" {
			return errors.New("source is file but snapshot is empty")
		}
	default:
		return fmt.Errorf("unknown source %q, want alpaca or file", cfg.Source)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.Log.Level) {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	if cfg.Telegram.Enabled && (cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "") {
		return errors.New("telegram enabled but TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID is missing")
	}
	return nil
}

// RequireAlpaca checks the credentials the Alpaca SDK reads from the environment.
// It is only called when the portfolio comes from Alpaca.
func (c *Config) RequireAlpaca() error {
	var missing []string
	for key, val := range map[string]string{
		"APCA_API_KEY_ID":     c.Alpaca.KeyID,
		"APCA_API_SECRET_KEY": c.Alpaca.SecretKey,
		"APCA_API_BASE_URL":   c.Alpaca.BaseURL,
	} {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}

// LogEnv prints the variables defined in the .env file at debug level, secrets masked.
func LogEnv() {
	envMap, err := godotenv.Read()
	if err != nil {
		return
	}
	keys := make([]string, 0, len(envMap))
	for key := range envMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		val := envMap[key]
		if secretVars[key] {
			val = Mask(val)
		}
		log.Debug().Str("key", key).Str("value", val).Msg(".env variable")
	}
}

// Mask hides a secret except for its last 4 characters.
func Mask(val string) string {
	if len(val) > 4 {
		return "***" + val[len(val)-4:]
	}
	return "***"
}
