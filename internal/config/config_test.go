package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antonyforte/yuanshao-bot/internal/team"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("ADMIN_CHANNEL_ID", "admin")
	t.Setenv("SHU_CHANNEL_ID", "shu-chan")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.StoreBackend != "file" || cfg.DataDir != "./data" || cfg.Workers != 16 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TeamChannel(team.Shu) != "shu-chan" {
		t.Errorf("shu channel = %q", cfg.TeamChannel(team.Shu))
	}
	if cfg.TeamChannel(team.Wei) != "" {
		t.Errorf("wei channel = %q", cfg.TeamChannel(team.Wei))
	}

	reg := cfg.TeamRegistry()
	if _, ok := reg.Channel(team.Wei); ok {
		t.Error("unconfigured team should have no channel")
	}
	if !reg.Owns(team.Shu, "shu-chan") {
		t.Error("shu should own its channel")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.env")
	content := "DISCORD_BOT_TOKEN=from-file\nADMIN_CHANNEL_ID=42\nSTORE_BACKEND=sqlite\nWORKERS=4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// godotenv does not override variables that are already set
	for _, key := range []string{"DISCORD_BOT_TOKEN", "ADMIN_CHANNEL_ID", "STORE_BACKEND", "WORKERS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DiscordToken != "from-file" || cfg.AdminChannelID != "42" || cfg.StoreBackend != "sqlite" || cfg.Workers != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("ADMIN_CHANNEL_ID", "admin")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil || !strings.Contains(err.Error(), "DISCORD_BOT_TOKEN") {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("ADMIN_CHANNEL_ID", "admin")
	t.Setenv("WORKERS", "many")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
