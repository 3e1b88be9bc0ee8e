// Package config loads process-wide configuration from the environment.
//
// A .env file in the working directory is honored when present, matching
// how the bot is deployed alongside its credentials. All values are read
// once at startup; nothing here is hot-reloaded.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultSalt is the documented fallback used when FEEDBOT_SALT is unset.
// Anonymization with a publicly known salt is brute-forceable; Load callers
// are expected to warn loudly when UsingDefaultSalt reports true.
const DefaultSalt = "default_salt"

type Config struct {
	Telegram  TelegramConfig
	Storage   StorageConfig
	Server    ServerConfig
	Anonymize AnonymizeConfig
	Log       LogConfig
	MCP       MCPConfig
}

type TelegramConfig struct {
	// Token is the Bot API credential.
	Token string
	// AdminChatID is the decimal chat id of the one administrator who may
	// run /retrieve and who receives feedback notifications.
	AdminChatID string
}

type StorageConfig struct {
	DataDir string
}

type ServerConfig struct {
	// Port for the loopback admin API.
	Port int
}

type AnonymizeConfig struct {
	Salt string
}

type LogConfig struct {
	Level string
}

type MCPConfig struct {
	Enabled bool
}

func defaults() Config {
	return Config{
		Storage:   StorageConfig{DataDir: defaultDataDir()},
		Server:    ServerConfig{Port: 4600},
		Anonymize: AnonymizeConfig{Salt: DefaultSalt},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads configuration from a .env file (if present) and FEEDBOT_*
// environment variables, environment winning. It fails when the bot token
// or the administrator chat id is missing: the process cannot serve
// without either.
func Load() (Config, error) {
	// Missing .env is fine; env vars alone are a supported deployment.
	_ = godotenv.Load()
	return loadFromEnv(os.Getenv)
}

func loadFromEnv(getenv func(string) string) (Config, error) {
	cfg := defaults()

	if v := getenv("FEEDBOT_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = strings.TrimSpace(v)
	}
	if v := getenv("FEEDBOT_ADMIN_CHAT_ID"); v != "" {
		cfg.Telegram.AdminChatID = strings.TrimSpace(v)
	}
	if v := getenv("FEEDBOT_SALT"); v != "" {
		cfg.Anonymize.Salt = v
	}
	if v := getenv("FEEDBOT_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := getenv("FEEDBOT_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FEEDBOT_API_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := getenv("FEEDBOT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := getenv("FEEDBOT_MCP"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FEEDBOT_MCP %q: %w", v, err)
		}
		cfg.MCP.Enabled = enabled
	}

	if cfg.Telegram.Token == "" {
		return Config{}, fmt.Errorf("missing required config: bot token. Set FEEDBOT_BOT_TOKEN")
	}
	if cfg.Telegram.AdminChatID == "" {
		return Config{}, fmt.Errorf("missing required config: administrator chat id. Set FEEDBOT_ADMIN_CHAT_ID")
	}

	return cfg, nil
}

// UsingDefaultSalt reports whether anonymization runs on the baked-in
// fallback salt.
func (c Config) UsingDefaultSalt() bool {
	return c.Anonymize.Salt == DefaultSalt
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "feedbot")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "feedbot-data"
	}
	return filepath.Join(home, ".local", "share", "feedbot")
}

// KeyInfo is one resolved configuration entry for display.
type KeyInfo struct {
	Key   string
	Value string
}

// ShowAll returns the resolved configuration for `config show`, with
// secrets redacted.
func ShowAll(cfg Config) []KeyInfo {
	return []KeyInfo{
		{Key: "telegram.token", Value: redact(cfg.Telegram.Token)},
		{Key: "telegram.admin_chat_id", Value: cfg.Telegram.AdminChatID},
		{Key: "storage.data_dir", Value: cfg.Storage.DataDir},
		{Key: "server.port", Value: strconv.Itoa(cfg.Server.Port)},
		{Key: "anonymize.salt", Value: redact(cfg.Anonymize.Salt)},
		{Key: "log.level", Value: cfg.Log.Level},
		{Key: "mcp.enabled", Value: strconv.FormatBool(cfg.MCP.Enabled)},
	}
}

func redact(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
