package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 0\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 5417 {
		t.Errorf("default port %d, want 5417", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host %q, want localhost", cfg.Server.Host)
	}
	if cfg.LLM.Model != "llama3.2" {
		t.Errorf("default model %q, want llama3.2", cfg.LLM.Model)
	}
	if cfg.LLM.Host != "http://localhost:11434" {
		t.Errorf("default llm host %q", cfg.LLM.Host)
	}
	if cfg.Scheduler.PublishInterval != "5m" {
		t.Errorf("default publish interval %q, want 5m", cfg.Scheduler.PublishInterval)
	}
	if cfg.Schedule.Timezone != "America/New_York" {
		t.Errorf("default schedule timezone %q", cfg.Schedule.Timezone)
	}
}

func TestLoadConfigSchedule(t *testing.T) {
	path := writeConfig(t, `
schedule:
  timezone: UTC
  posting_days: [0, 3]
  posting_windows:
    twitter:
      - { hour: 7, minute: 30 }
pipeline:
  platform_rules:
    reddit:
      max_chars: 5000
      max_hashtags: 0
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Schedule.Timezone != "UTC" {
		t.Errorf("timezone %q, want UTC", cfg.Schedule.Timezone)
	}
	if len(cfg.Schedule.PostingDays) != 2 || cfg.Schedule.PostingDays[1] != 3 {
		t.Errorf("posting days %v", cfg.Schedule.PostingDays)
	}
	windows := cfg.Schedule.PostingWindows["twitter"]
	if len(windows) != 1 || windows[0].Hour != 7 || windows[0].Minute != 30 {
		t.Errorf("twitter windows %v", windows)
	}

	rule := cfg.Pipeline.PlatformRules["reddit"]
	if rule.MaxChars != 5000 {
		t.Errorf("reddit max chars %d", rule.MaxChars)
	}
	if rule.MaxHashtags == nil || *rule.MaxHashtags != 0 {
		t.Error("explicit zero hashtag limit must survive as a set value")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
