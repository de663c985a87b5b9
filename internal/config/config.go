package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Mail     MailConfig     `yaml:"mail"`
	Campaign CampaignConfig `yaml:"campaign"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RabbitMQConfig struct {
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type GeminiConfig struct {
	APIKey         string        `yaml:"api_key"`
	ScoutModel     string        `yaml:"scout_model"`
	AuditModel     string        `yaml:"audit_model"`
	Consultant     string        `yaml:"consultant"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	Operator string `yaml:"operator"` // inbox that receives the outreach copies
}

// CampaignConfig tunes the outreach runner pacing. Delays are expressed in
// milliseconds to match the dashboard they came from.
type CampaignConfig struct {
	MinDelayMs      int    `yaml:"min_delay_ms"`
	MaxDelayMs      int    `yaml:"max_delay_ms"`
	PauseMs         int    `yaml:"pause_ms"`
	MaxAttempts     int    `yaml:"max_attempts"`
	RetryBackoffMs  int    `yaml:"retry_backoff_ms"`
	RequeueOnStop   bool   `yaml:"requeue_on_stop"`
	SchedulerSpec   string `yaml:"scheduler_spec"`
	SchedulerEnable bool   `yaml:"scheduler_enable"`
}

// Load reads an optional YAML file, then lets environment variables win.
// A .env file is honored when present.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s inválido: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)

	if cfg.Gemini.TimeoutSeconds <= 0 {
		cfg.Gemini.TimeoutSeconds = 60
	}
	cfg.Gemini.Timeout = time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173", "*"},
		},
		RabbitMQ: RabbitMQConfig{
			User: "guest",
			Pass: "guest",
			Host: "localhost",
			Port: "5672",
		},
		Gemini: GeminiConfig{
			ScoutModel:     "gemini-3-pro-preview",
			AuditModel:     "gemini-3-flash-preview",
			Consultant:     "Rana Waqas",
			TimeoutSeconds: 60,
		},
		Mail: MailConfig{
			Port: 587,
		},
		Campaign: CampaignConfig{
			MinDelayMs:      3000,
			MaxDelayMs:      8000,
			PauseMs:         2000,
			MaxAttempts:     3,
			RetryBackoffMs:  500,
			RequeueOnStop:   false,
			SchedulerSpec:   "@every 1m",
			SchedulerEnable: true,
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)

	cfg.RabbitMQ.User = getEnv("RABBITMQ_USER", cfg.RabbitMQ.User)
	cfg.RabbitMQ.Pass = getEnv("RABBITMQ_PASS", cfg.RabbitMQ.Pass)
	cfg.RabbitMQ.Host = getEnv("RABBITMQ_HOST", cfg.RabbitMQ.Host)
	cfg.RabbitMQ.Port = getEnv("RABBITMQ_PORT", cfg.RabbitMQ.Port)

	cfg.Gemini.APIKey = getEnv("GEMINI_API_KEY", cfg.Gemini.APIKey)
	cfg.Gemini.ScoutModel = getEnv("GEMINI_SCOUT_MODEL", cfg.Gemini.ScoutModel)
	cfg.Gemini.AuditModel = getEnv("GEMINI_AUDIT_MODEL", cfg.Gemini.AuditModel)
	cfg.Gemini.Consultant = getEnv("CONSULTANT_NAME", cfg.Gemini.Consultant)

	cfg.Mail.Host = getEnv("MAIL_HOST", cfg.Mail.Host)
	cfg.Mail.Port = getEnvInt("MAIL_PORT", cfg.Mail.Port)
	cfg.Mail.User = getEnv("MAIL_USER", cfg.Mail.User)
	cfg.Mail.Password = getEnv("MAIL_PASS", cfg.Mail.Password)
	cfg.Mail.From = getEnv("MAIL_FROM", cfg.Mail.From)
	cfg.Mail.Operator = getEnv("OPERATOR_EMAIL", cfg.Mail.Operator)

	cfg.Campaign.MinDelayMs = getEnvInt("CAMPAIGN_MIN_DELAY_MS", cfg.Campaign.MinDelayMs)
	cfg.Campaign.MaxDelayMs = getEnvInt("CAMPAIGN_MAX_DELAY_MS", cfg.Campaign.MaxDelayMs)
	cfg.Campaign.PauseMs = getEnvInt("CAMPAIGN_PAUSE_MS", cfg.Campaign.PauseMs)
	cfg.Campaign.MaxAttempts = getEnvInt("CAMPAIGN_MAX_ATTEMPTS", cfg.Campaign.MaxAttempts)
	cfg.Campaign.RetryBackoffMs = getEnvInt("CAMPAIGN_RETRY_BACKOFF_MS", cfg.Campaign.RetryBackoffMs)
	cfg.Campaign.RequeueOnStop = getEnvBool("CAMPAIGN_REQUEUE_ON_STOP", cfg.Campaign.RequeueOnStop)
	cfg.Campaign.SchedulerSpec = getEnv("CAMPAIGN_SCHEDULER_SPEC", cfg.Campaign.SchedulerSpec)
	cfg.Campaign.SchedulerEnable = getEnvBool("CAMPAIGN_SCHEDULER_ENABLE", cfg.Campaign.SchedulerEnable)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
