// Package config assembles the runtime configuration from the environment.
// Every knob has a MENUFLOW_-prefixed variable and a sensible default, so a
// bare `menuflow serve` against a menus file just works.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rejoice-framework/menuflow/internal/kernel"
)

// Config is the full runtime configuration of the service.
type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string

	// MenuPath points at the YAML menu definitions.
	MenuPath string

	// SnapshotPath points at an exported registry snapshot, used when no
	// YAML file is present.
	SnapshotPath string

	// Store selects the session backend: memory, file, redis, bolt or
	// postgres.
	Store string

	// StorePath is the directory (file) or database file (bolt).
	StorePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresDSN string

	SMSEndpoint string
	SMSSenderID string

	// EncryptionKey, when set, turns on at-rest session encryption. It is
	// a hex-encoded 32-byte AES-256 key; EncryptionFallbackKeys carry old
	// keys during rotation.
	EncryptionKey          string
	EncryptionFallbackKeys []string

	// PIIPatterns are regular expressions masking developer-scope keys and
	// logged responses before they reach the session backend.
	PIIPatterns []string

	LogLevel string
	LogJSON  bool

	Kernel kernel.Config
}

// FromEnv builds the configuration from the process environment.
func FromEnv() Config {
	k := kernel.DefaultConfig()
	k.WelcomeMenu = String("MENUFLOW_WELCOME_MENU", k.WelcomeMenu)
	k.SessionLifetime = Duration("MENUFLOW_SESSION_LIFETIME", k.SessionLifetime)
	k.AlwaysStartNewSession = Bool("MENUFLOW_ALWAYS_START_NEW_SESSION", k.AlwaysStartNewSession)
	k.AskUserBeforeReloadLastSession = Bool("MENUFLOW_ASK_BEFORE_RELOAD", k.AskUserBeforeReloadLastSession)
	k.EndOnUserError = Bool("MENUFLOW_END_ON_USER_ERROR", k.EndOnUserError)
	k.EndOnUnhandledAction = Bool("MENUFLOW_END_ON_UNHANDLED_ACTION", k.EndOnUnhandledAction)
	k.AllowTimeout = Bool("MENUFLOW_ALLOW_TIMEOUT", k.AllowTimeout)
	k.Production = Bool("MENUFLOW_PRODUCTION", k.Production)
	k.AdminMsisdn = String("MENUFLOW_ADMIN_MSISDN", "")
	k.Render.MaxChars = Int("MENUFLOW_MAX_CHARS", k.Render.MaxChars)
	k.Render.MaxLines = Int("MENUFLOW_MAX_LINES", k.Render.MaxLines)

	return Config{
		ListenAddr:    String("MENUFLOW_LISTEN_ADDR", ":8080"),
		MenuPath:      String("MENUFLOW_MENU_PATH", "menus.yml"),
		SnapshotPath:  String("MENUFLOW_SNAPSHOT_PATH", ""),
		Store:         String("MENUFLOW_STORE", "memory"),
		StorePath:     String("MENUFLOW_STORE_PATH", ""),
		RedisAddr:     String("MENUFLOW_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: String("MENUFLOW_REDIS_PASSWORD", ""),
		RedisDB:       Int("MENUFLOW_REDIS_DB", 0),
		PostgresDSN:   String("MENUFLOW_POSTGRES_DSN", ""),
		SMSEndpoint:   String("MENUFLOW_SMS_ENDPOINT", ""),
		SMSSenderID:   String("MENUFLOW_SMS_SENDER_ID", "MENUFLOW"),

		EncryptionKey:          String("MENUFLOW_ENCRYPTION_KEY", ""),
		EncryptionFallbackKeys: List("MENUFLOW_ENCRYPTION_FALLBACK_KEYS"),
		PIIPatterns:            List("MENUFLOW_PII_PATTERNS"),

		LogLevel:      String("MENUFLOW_LOG_LEVEL", "info"),
		LogJSON:       Bool("MENUFLOW_LOG_JSON", false),
		Kernel:        k,
	}
}

// ParseLevel maps the configured log level name onto slog.
func (c Config) ParseLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate rejects combinations that cannot boot.
func (c Config) Validate() error {
	switch c.Store {
	case "memory", "file", "redis", "bolt", "postgres":
	default:
		return fmt.Errorf("unknown store %q (supported: memory, file, redis, bolt, postgres)", c.Store)
	}
	if c.Store == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("the postgres store needs MENUFLOW_POSTGRES_DSN")
	}
	if c.MenuPath == "" && c.SnapshotPath == "" {
		return fmt.Errorf("either MENUFLOW_MENU_PATH or MENUFLOW_SNAPSHOT_PATH must be set")
	}
	for _, key := range append([]string{c.EncryptionKey}, c.EncryptionFallbackKeys...) {
		if key == "" {
			continue
		}
		decoded, err := hex.DecodeString(key)
		if err != nil {
			return fmt.Errorf("encryption keys must be hex-encoded: %w", err)
		}
		if len(decoded) != 32 {
			return fmt.Errorf("encryption keys must decode to 32 bytes, got %d", len(decoded))
		}
	}
	for _, p := range c.PIIPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
	}
	return nil
}

// DecodeKey returns the hex-decoded form of a validated encryption key.
func DecodeKey(key string) []byte {
	decoded, _ := hex.DecodeString(key)
	return decoded
}

// String reads a string variable with a default.
func String(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// Bool reads a boolean variable. Accepts true/1/yes/on and false/0/no/off,
// case-insensitive; anything else keeps the default and warns.
func Bool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		slog.Warn("invalid boolean value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}
}

// List reads a comma-separated variable. Empty elements are dropped.
func List(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Int reads an integer variable with a default.
func Int(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		slog.Warn("invalid integer value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}
	return n
}

// Duration reads a duration variable ("90s", "2m") with a default.
func Duration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		slog.Warn("invalid duration value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}
	return d
}
