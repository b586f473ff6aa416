package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backend names accepted in storage.type
const (
	StorageEdgeConfig = "edgeconfig"
	StorageFile       = "file"
	StoragePostgres   = "postgres"
	StorageRedis      = "redis"
	StorageMemory     = "memory"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Invite    InviteConfig    `yaml:"invite"`
	Storage   StorageConfig   `yaml:"storage"`
	Notify    NotifyConfig    `yaml:"notify"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	AdminURL  string          `yaml:"admin_url"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// InviteConfig contains the invitation lifecycle policy
type InviteConfig struct {
	Key                    string   `yaml:"key"`
	TTLDays                int      `yaml:"ttl_days"`
	WarningDays            int      `yaml:"warning_days"`
	AllowedHosts           []string `yaml:"allowed_hosts"`
	ValidateTimeoutSeconds int      `yaml:"validate_timeout_seconds"`
	UserAgent              string   `yaml:"user_agent"`
}

// StorageConfig selects and configures the record backend
type StorageConfig struct {
	Type          string `yaml:"type"`          // edgeconfig, file, postgres, redis or memory
	FilePath      string `yaml:"file_path"`     // For file storage
	FallbackFile  string `yaml:"fallback_file"` // Read fallback and write mirror for non-file backends
	EdgeConfig    string `yaml:"edge_config"`   // Connection string
	APIToken      string `yaml:"api_token"`
	TeamID        string `yaml:"team_id"`
	APIBaseURL    string `yaml:"api_base_url"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// NotifyConfig contains notification sink settings
type NotifyConfig struct {
	SlackWebhookURL string `yaml:"slack_webhook_url"`
	SendGridAPIKey  string `yaml:"sendgrid_api_key"`
	EmailFrom       string `yaml:"email_from"`
	EmailTo         string `yaml:"email_to"`
	SMTPHost        string `yaml:"smtp_host"`
	SMTPPort        int    `yaml:"smtp_port"`
	SMTPUser        string `yaml:"smtp_user"`
	SMTPPassword    string `yaml:"smtp_password"`
}

// AuthConfig contains admin and cron credentials
type AuthConfig struct {
	JWTSecret   string   `yaml:"jwt_secret"`
	AdminEmails []string `yaml:"admin_emails"`
	CronSecret  string   `yaml:"cron_secret"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	Enabled     bool   `yaml:"enabled"`
	CheckInvite string `yaml:"check_invite"`
}

// Load reads configuration from a YAML file. An empty path skips the file and
// builds the configuration from the environment alone.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Invite
	if val := os.Getenv("INVITE_LINK_TTL_DAYS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Invite.TTLDays)
	}
	if val := os.Getenv("INVITE_WARNING_DAYS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Invite.WarningDays)
	}

	// Storage
	if val := os.Getenv("STORAGE_TYPE"); val != "" {
		c.Storage.Type = val
	}
	if val := os.Getenv("INVITE_FILE"); val != "" {
		c.Storage.FilePath = val
	}
	if val := os.Getenv("EDGE_CONFIG"); val != "" {
		c.Storage.EdgeConfig = val
	}
	if val := os.Getenv("VERCEL_API_TOKEN"); val != "" {
		c.Storage.APIToken = val
	}
	if val := os.Getenv("VERCEL_TEAM_ID"); val != "" {
		c.Storage.TeamID = val
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.Storage.PostgresDSN = val
	}
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Storage.RedisAddr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Storage.RedisPassword = val
	}

	// Notify
	if val := os.Getenv("SLACK_WEBHOOK_URL"); val != "" {
		c.Notify.SlackWebhookURL = val
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notify.SendGridAPIKey = val
	}
	if val := os.Getenv("NOTIFY_EMAIL_TO"); val != "" {
		c.Notify.EmailTo = val
	}
	if val := os.Getenv("NOTIFY_EMAIL_FROM"); val != "" {
		c.Notify.EmailFrom = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Notify.SMTPHost = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Notify.SMTPPort)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.Notify.SMTPUser = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Notify.SMTPPassword = val
	}

	// Auth
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}
	if val := os.Getenv("CRON_SECRET"); val != "" {
		c.Auth.CronSecret = val
	}
	if val := os.Getenv("ADMIN_EMAILS"); val != "" {
		c.Auth.AdminEmails = splitCSV(val)
	}
	if val := os.Getenv("ADMIN_URL"); val != "" {
		c.AdminURL = val
	}

	// Scheduler
	if val := os.Getenv("SCHEDULER_ENABLED"); val != "" {
		c.Scheduler.Enabled = val == "true" || val == "1"
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate fills defaults and checks if the configuration is valid
func (c *Config) Validate() error {
	// Server
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Invite policy
	if c.Invite.Key == "" {
		c.Invite.Key = "slack_invite"
	}
	if c.Invite.TTLDays == 0 {
		c.Invite.TTLDays = 30
	}
	if c.Invite.TTLDays < 0 {
		return fmt.Errorf("invalid invite ttl: %d days", c.Invite.TTLDays)
	}
	if c.Invite.WarningDays == 0 {
		c.Invite.WarningDays = 5
	}
	if c.Invite.WarningDays < 0 {
		return fmt.Errorf("invalid warning window: %d days", c.Invite.WarningDays)
	}
	if len(c.Invite.AllowedHosts) == 0 {
		c.Invite.AllowedHosts = []string{"join.slack.com", "slack.com/signup"}
	}
	if c.Invite.ValidateTimeoutSeconds == 0 {
		c.Invite.ValidateTimeoutSeconds = 10
	}
	if c.Invite.UserAgent == "" {
		c.Invite.UserAgent = "SlackInviteValidator/1.0"
	}

	// Storage
	if c.Storage.Type == "" {
		c.Storage.Type = StorageFile
	}
	switch c.Storage.Type {
	case StorageFile:
		if c.Storage.FilePath == "" {
			c.Storage.FilePath = "data/invite.json"
		}
	case StorageEdgeConfig:
		if c.Storage.EdgeConfig == "" {
			return errors.New("EDGE_CONFIG connection string is required for edgeconfig storage")
		}
		if c.Storage.APIBaseURL == "" {
			c.Storage.APIBaseURL = "https://api.vercel.com"
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("postgres dsn is required for postgres storage")
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			c.Storage.RedisAddr = "127.0.0.1:6379"
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}

	if c.Notify.SendGridAPIKey != "" && (c.Notify.EmailFrom == "" || c.Notify.EmailTo == "") {
		return errors.New("email_from and email_to are required when sendgrid is configured")
	}
	if c.Notify.SMTPHost != "" {
		if c.Notify.EmailFrom == "" || c.Notify.EmailTo == "" {
			return errors.New("email_from and email_to are required when smtp is configured")
		}
		if c.Notify.SMTPPort == 0 {
			c.Notify.SMTPPort = 587
		}
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Scheduler
	if c.Scheduler.CheckInvite == "" {
		c.Scheduler.CheckInvite = "0 0 9 * * *" // Daily at 9 AM UTC
	}

	if c.AdminURL == "" {
		c.AdminURL = "/admin"
	}

	return nil
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// TTL returns the invitation lifetime as a duration
func (c InviteConfig) TTL() time.Duration {
	return time.Duration(c.TTLDays) * 24 * time.Hour
}

// ValidateTimeout returns the liveness probe timeout
func (c InviteConfig) ValidateTimeout() time.Duration {
	return time.Duration(c.ValidateTimeoutSeconds) * time.Second
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
