package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
	"github.com/antonyforte/yuanshao-bot/internal/team"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string `env:"DISCORD_BOT_TOKEN"`

	// Channels
	AdminChannelID string `env:"ADMIN_CHANNEL_ID"`
	ShuChannelID   string `env:"SHU_CHANNEL_ID"`
	WeiChannelID   string `env:"WEI_CHANNEL_ID"`
	WuChannelID    string `env:"WU_CHANNEL_ID"`

	// Storage
	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"`
	DataDir      string `env:"DATA_DIR" envDefault:"./data"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/bot.db"`
	DatabaseURL  string `env:"DATABASE_URL"`
	BoltPath     string `env:"BOLT_PATH" envDefault:"./data/bot.bolt"`
	MediaDir     string `env:"MEDIA_DIR" envDefault:"./data"`

	// Dispatch
	Workers int `env:"WORKERS" envDefault:"16"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables, after loading the
// given .env files (or ./.env when none are given).
func Load(envFiles ...string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required fields
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if c.AdminChannelID == "" {
		return fmt.Errorf("ADMIN_CHANNEL_ID is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", c.Workers)
	}
	return nil
}

// TeamChannel returns the channel configured for a team, or "" when none is
func (c *Config) TeamChannel(id team.ID) chat.ChatID {
	switch id {
	case team.Shu:
		return chat.ChatID(c.ShuChannelID)
	case team.Wei:
		return chat.ChatID(c.WeiChannelID)
	case team.Wu:
		return chat.ChatID(c.WuChannelID)
	}
	return ""
}

// TeamRegistry builds the team-to-channel registry from the configuration
func (c *Config) TeamRegistry() *team.Registry {
	r := team.NewRegistry()
	for _, id := range team.All() {
		r.Register(id, c.TeamChannel(id))
	}
	return r
}
