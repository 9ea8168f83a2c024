package config

import (
	yamlenv "github.com/ifuryst/go-yaml-env"

	"github.com/AreteDriver/marketing-engine/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logger    logger.Config   `yaml:"logger"`
	LLM       LLMConfig       `yaml:"llm"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Publisher PublisherConfig `yaml:"publisher"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Host     string `yaml:"host"`
	Mode     string `yaml:"mode"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"timezone"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Host        string  `yaml:"host"`
	Temperature float64 `yaml:"temperature"`
}

// SchedulerConfig controls the background publish loop.
type SchedulerConfig struct {
	PublishInterval string `yaml:"publish_interval"`
	Enabled         bool   `yaml:"enabled"`
	DryRun          bool   `yaml:"dry_run"`
}

// Window is a time-of-day posting slot.
type Window struct {
	Hour   int `yaml:"hour"`
	Minute int `yaml:"minute"`
}

// ScheduleConfig holds the queue agent's scheduling rules. Zero values
// fall back to the defaults documented on each field.
type ScheduleConfig struct {
	// Timezone scheduled times are expressed in. Default America/New_York.
	Timezone string `yaml:"timezone"`
	// PostingDays are weekday offsets from Monday (0=Mon..6=Sun) eligible
	// for posting. Default [1,2,3,4,5,6], Tuesday through Sunday.
	PostingDays []int `yaml:"posting_days"`
	// PostingWindows are per-platform ordered time slots. Platforms not
	// listed use built-in defaults.
	PostingWindows map[string][]Window `yaml:"posting_windows"`
}

// PlatformRule overrides formatting limits for one platform.
// MaxHashtags is a pointer so that an explicit 0 (reddit) survives.
type PlatformRule struct {
	MaxChars    int    `yaml:"max_chars"`
	MaxHashtags *int   `yaml:"max_hashtags"`
	StyleNotes  string `yaml:"style_notes"`
}

// PipelineConfig feeds the content generation agents.
type PipelineConfig struct {
	BrandVoice    BrandVoiceConfig        `yaml:"brand_voice"`
	PlatformRules map[string]PlatformRule `yaml:"platform_rules"`
}

type BrandVoiceConfig struct {
	Principles []string `yaml:"principles"`
	Avoid      []string `yaml:"avoid"`
}

type PublisherConfig struct {
	Twitter  TwitterConfig  `yaml:"twitter"`
	LinkedIn LinkedInConfig `yaml:"linkedin"`
	Reddit   RedditConfig   `yaml:"reddit"`
}

type TwitterConfig struct {
	Enabled          bool   `yaml:"enabled"`
	APIKey           string `yaml:"api_key"`
	APIKeySecret     string `yaml:"api_key_secret"`
	OAuthToken       string `yaml:"oauth_token"`
	OAuthTokenSecret string `yaml:"oauth_token_secret"`
}

type LinkedInConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AccessToken string `yaml:"access_token"`
	PersonID    string `yaml:"person_id"`
}

type RedditConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
}

func LoadConfig(configPath string) (*Config, error) {
	cfg, err := yamlenv.LoadConfig[Config](configPath)
	if err != nil {
		return nil, err
	}

	// Set default values
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5417
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.TimeZone == "" {
		cfg.Database.TimeZone = "UTC"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "llama3.2"
	}
	if cfg.LLM.Host == "" {
		cfg.LLM.Host = "http://localhost:11434"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.Scheduler.PublishInterval == "" {
		cfg.Scheduler.PublishInterval = "5m"
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "America/New_York"
	}

	return cfg, nil
}
