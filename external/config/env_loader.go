package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/rokuon/internal/config"
)

const (
	defaultEnv           = "production"
	defaultUploadAuthURL = "https://api.recall.ai/api/v1/sdk-upload/"
	defaultEngineURL     = "ws://127.0.0.1:8765/engine"
	defaultEngineAPIURL  = "https://api.recall.ai"
	defaultUIListenAddr  = "127.0.0.1:8790"
	defaultTitleTimezone = "Local"
)

// envConfig has no envDefault tags so an unset variable never masks a file value.
type envConfig struct {
	Env                    string   `env:"ENV"`
	APIKey                 string   `env:"API_KEY"`
	UploadAuthURL          string   `env:"UPLOAD_AUTH_URL"`
	EngineURL              string   `env:"ENGINE_URL"`
	EngineAPIURL           string   `env:"ENGINE_API_URL"`
	UIListenAddr           string   `env:"UI_LISTEN_ADDR"`
	UIAllowedOrigins       []string `env:"UI_ALLOWED_ORIGINS" envSeparator:","`
	RecordingsDir          string   `env:"RECORDINGS_DIR"`
	AutoRecord             *bool    `env:"AUTO_RECORD"`
	TitleTimezone          string   `env:"TITLE_TIMEZONE"`
	DatabaseURL            string   `env:"DATABASE_URL"`
	DiscordToken           string   `env:"DISCORD_TOKEN"`
	DiscordNoticeChannelID string   `env:"DISCORD_NOTICE_CHANNEL_ID"`
	NoticeWebhookURL       string   `env:"NOTICE_WEBHOOK_URL"`
}

type fileConfig struct {
	Env                    string   `toml:"env"`
	APIKey                 string   `toml:"api_key"`
	UploadAuthURL          string   `toml:"upload_auth_url"`
	EngineURL              string   `toml:"engine_url"`
	EngineAPIURL           string   `toml:"engine_api_url"`
	UIListenAddr           string   `toml:"ui_listen_addr"`
	UIAllowedOrigins       []string `toml:"ui_allowed_origins"`
	RecordingsDir          string   `toml:"recordings_dir"`
	AutoRecord             bool     `toml:"auto_record"`
	TitleTimezone          string   `toml:"title_timezone"`
	DatabaseURL            string   `toml:"database_url"`
	DiscordToken           string   `toml:"discord_token"`
	DiscordNoticeChannelID string   `toml:"discord_notice_channel_id"`
	NoticeWebhookURL       string   `toml:"notice_webhook_url"`
}

// Load merges the TOML file at path (or the default location when path is
// empty), environment variables and defaults, in that order of precedence
// from lowest to highest for file and env. A missing file is only tolerated
// at the default location.
func Load(path string) (*internalconfig.Config, error) {
	var fc fileConfig
	explicit := path != ""
	if !explicit {
		path = defaultConfigFilePath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			switch {
			case errors.Is(err, fs.ErrNotExist) && explicit:
				return nil, fmt.Errorf("config file %s does not exist: %w", path, err)
			case !errors.Is(err, fs.ErrNotExist):
				return nil, fmt.Errorf("config file %s is invalid: %w", path, err)
			}
		}
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid: %w", err)
	}

	cfg := merge(fc, raw)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.RecordingsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create recordings dir: %w", err)
	}
	return cfg, nil
}

func merge(fc fileConfig, raw envConfig) *internalconfig.Config {
	autoRecord := fc.AutoRecord
	if raw.AutoRecord != nil {
		autoRecord = *raw.AutoRecord
	}
	origins := fc.UIAllowedOrigins
	if len(raw.UIAllowedOrigins) > 0 {
		origins = raw.UIAllowedOrigins
	}
	return &internalconfig.Config{
		Env:                    firstNonEmpty(raw.Env, fc.Env, defaultEnv),
		APIKey:                 firstNonEmpty(raw.APIKey, fc.APIKey),
		UploadAuthURL:          firstNonEmpty(raw.UploadAuthURL, fc.UploadAuthURL, defaultUploadAuthURL),
		EngineURL:              firstNonEmpty(raw.EngineURL, fc.EngineURL, defaultEngineURL),
		EngineAPIURL:           firstNonEmpty(raw.EngineAPIURL, fc.EngineAPIURL, defaultEngineAPIURL),
		UIListenAddr:           firstNonEmpty(raw.UIListenAddr, fc.UIListenAddr, defaultUIListenAddr),
		UIAllowedOrigins:       trimAll(origins),
		RecordingsDir:          expandTilde(firstNonEmpty(raw.RecordingsDir, fc.RecordingsDir, os.TempDir())),
		AutoRecord:             autoRecord,
		TitleTimezone:          firstNonEmpty(raw.TitleTimezone, fc.TitleTimezone, defaultTitleTimezone),
		DatabaseURL:            firstNonEmpty(raw.DatabaseURL, fc.DatabaseURL),
		DiscordToken:           firstNonEmpty(raw.DiscordToken, fc.DiscordToken),
		DiscordNoticeChannelID: firstNonEmpty(raw.DiscordNoticeChannelID, fc.DiscordNoticeChannelID),
		NoticeWebhookURL:       firstNonEmpty(raw.NoticeWebhookURL, fc.NoticeWebhookURL),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func defaultConfigFilePath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "rokuon")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "rokuon")
	} else {
		return ""
	}
	return filepath.Join(configDir, "config.toml")
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
