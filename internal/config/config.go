package config

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	Env                    string
	APIKey                 string
	UploadAuthURL          string
	EngineURL              string
	EngineAPIURL           string
	UIListenAddr           string
	UIAllowedOrigins       []string
	RecordingsDir          string
	AutoRecord             bool
	TitleTimezone          string
	DatabaseURL            string
	DiscordToken           string
	DiscordNoticeChannelID string
	NoticeWebhookURL       string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	u, err := url.Parse(c.EngineURL)
	if err != nil {
		return fmt.Errorf("ENGINE_URL is invalid: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("ENGINE_URL must use ws or wss scheme, got %q", u.Scheme)
	}
	if _, err := time.LoadLocation(c.TitleTimezone); err != nil {
		return fmt.Errorf("TITLE_TIMEZONE is invalid: %w", err)
	}
	if (c.DiscordToken == "") != (c.DiscordNoticeChannelID == "") {
		return fmt.Errorf("DISCORD_TOKEN and DISCORD_NOTICE_CHANNEL_ID must be set together")
	}
	return nil
}

type requiredField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredField {
	return []requiredField{
		{name: "API_KEY", value: c.APIKey},
		{name: "UPLOAD_AUTH_URL", value: c.UploadAuthURL},
		{name: "ENGINE_URL", value: c.EngineURL},
		{name: "UI_LISTEN_ADDR", value: c.UIListenAddr},
		{name: "RECORDINGS_DIR", value: c.RecordingsDir},
		{name: "TITLE_TIMEZONE", value: c.TitleTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) DiscordNoticesEnabled() bool {
	return c.DiscordToken != "" && c.DiscordNoticeChannelID != ""
}

// TitleLocation falls back to time.Local when the configured zone cannot be loaded.
func (c *Config) TitleLocation() *time.Location {
	loc, err := time.LoadLocation(c.TitleTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}
