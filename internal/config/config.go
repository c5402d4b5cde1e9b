// Package config loads the secretariat runtime settings.
//
// Priority, lowest to highest: built-in defaults, an optional JSON file
// (APP_CONFIG, ./config.json), environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/logging"
)

// DateLayout is the calendar date format used by the onboarding form.
const DateLayout = "2006-01-02"

type ServerConfig struct {
	Address        string   `json:"address"`
	AllowedOrigins []string `json:"allowedOrigins"`
	// RateLimitPerSecond and RateLimitBurst apply to the form POST endpoints.
	RateLimitPerSecond float64 `json:"rateLimitPerSecond"`
	RateLimitBurst     int     `json:"rateLimitBurst"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	SSLMode  string `json:"sslMode"`
}

// DSN returns the postgres connection string shared by sqlx, GORM and goose.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	// Host empty means the in-memory cache is used instead of Redis.
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

type GithubConfig struct {
	APIBaseURL string `json:"apiBaseUrl"`
	// Repository is "owner/name" of the content repository.
	Repository    string `json:"repository"`
	DefaultBranch string `json:"defaultBranch"`
	Token         string `json:"token"`
}

type MailConfig struct {
	// SMTPHost empty means mails are only logged.
	SMTPHost     string `json:"smtpHost"`
	SMTPPort     int    `json:"smtpPort"`
	SMTPUser     string `json:"smtpUser"`
	SMTPPassword string `json:"smtpPassword"`
	From         string `json:"from"`
}

type AuthConfig struct {
	SessionSecret string        `json:"sessionSecret"`
	SessionTTL    time.Duration `json:"sessionTtl"`
	LoginTokenTTL time.Duration `json:"loginTokenTtl"`
}

type Config struct {
	Env      string         `json:"env"`
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Github   GithubConfig   `json:"github"`
	Mail     MailConfig     `json:"mail"`
	Auth     AuthConfig     `json:"auth"`

	// Domain is the community mail domain, e.g. beta.gouv.fr.
	Domain string `json:"domain"`
	// Protocol and Host build absolute links sent by email.
	Protocol string `json:"protocol"`
	Host     string `json:"host"`
	// UsersAPI is the base URL serving authors.json and startups.json.
	UsersAPI string `json:"usersApi"`
	// MinStartDate is the earliest accepted mission start (YYYY-MM-DD).
	MinStartDate string `json:"minStartDate"`
}

// Default returns a development configuration.
// These values are insecure for production and must be overridden.
func Default() Config {
	return Config{
		Env: "development",
		Server: ServerConfig{
			Address:            ":8100",
			AllowedOrigins:     []string{"http://localhost:8100"},
			RateLimitPerSecond: 1,
			RateLimitBurst:     5,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "secretariat",
			Password: "secretariat",
			Name:     "secretariat",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Port: "6379",
		},
		Github: GithubConfig{
			APIBaseURL:    "https://api.github.com",
			Repository:    "betagouv/beta.gouv.fr",
			DefaultBranch: "master",
		},
		Mail: MailConfig{
			SMTPPort: 587,
			From:     "secretariat@localhost",
		},
		Auth: AuthConfig{
			SessionSecret: "dev-secret-change-me-in-production",
			SessionTTL:    7 * 24 * time.Hour,
			LoginTokenTTL: time.Hour,
		},
		Domain:       "beta.gouv.fr",
		Protocol:     "http",
		Host:         "localhost:8100",
		UsersAPI:     "https://beta.gouv.fr",
		MinStartDate: "2020-01-13",
	}
}

// IsProd tells whether the production environment is configured.
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// MinStart parses MinStartDate.
func (c *Config) MinStart() (time.Time, error) {
	return time.Parse(DateLayout, c.MinStartDate)
}

// BaseURL is the public root of the application, without trailing slash.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("%s://%s", c.Protocol, c.Host)
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if _, err := c.MinStart(); err != nil {
		return fmt.Errorf("invalid minimum start date %q: %w", c.MinStartDate, err)
	}
	if !strings.Contains(c.Github.Repository, "/") {
		return fmt.Errorf("github repository must be owner/name, got %q", c.Github.Repository)
	}
	if c.Auth.LoginTokenTTL <= 0 || c.Auth.SessionTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.IsProd() {
		if c.Auth.SessionSecret == Default().Auth.SessionSecret {
			return errors.New("SESSION_SECRET must be set in production")
		}
		if c.Github.Token == "" {
			return errors.New("GITHUB_TOKEN must be set in production")
		}
		if c.Mail.SMTPHost == "" {
			return errors.New("SMTP_HOST must be set in production")
		}
	}
	return nil
}

// Load builds a Config from defaults, an optional JSON file and the environment.
func Load() (*Config, error) {
	cfg := Default()

	if path, explicit := configPath(); path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			if explicit {
				return nil, fmt.Errorf("load APP_CONFIG %s: %w", path, err)
			}
			logging.Warn("Failed to load config file", "path", path, "error", err.Error())
		}
	}

	if err := loadFromEnv(&cfg, os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configPath returns the config file to read and whether APP_CONFIG named it.
func configPath() (string, bool) {
	if path := os.Getenv("APP_CONFIG"); path != "" {
		return path, true
	}
	if _, err := os.Stat("./config.json"); err == nil {
		return "./config.json", false
	}
	return "", false
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

// loadFromEnv overlays environment variables read through getenv.
func loadFromEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	str("APP_ENV", &cfg.Env)
	str("SERVER_ADDR", &cfg.Server.Address)
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	str("PG_HOST", &cfg.Database.Host)
	str("PG_PORT", &cfg.Database.Port)
	str("PG_USER", &cfg.Database.User)
	str("PG_PASSWORD", &cfg.Database.Password)
	str("PG_DB", &cfg.Database.Name)
	str("PG_SSLMODE", &cfg.Database.SSLMode)

	str("REDIS_HOST", &cfg.Redis.Host)
	str("REDIS_PORT", &cfg.Redis.Port)
	str("REDIS_PASSWORD", &cfg.Redis.Password)

	str("GITHUB_API_URL", &cfg.Github.APIBaseURL)
	str("GITHUB_REPOSITORY", &cfg.Github.Repository)
	str("GITHUB_DEFAULT_BRANCH", &cfg.Github.DefaultBranch)
	str("GITHUB_TOKEN", &cfg.Github.Token)

	str("SMTP_HOST", &cfg.Mail.SMTPHost)
	str("SMTP_USER", &cfg.Mail.SMTPUser)
	str("SMTP_PASSWORD", &cfg.Mail.SMTPPassword)
	str("MAIL_SENDER", &cfg.Mail.From)
	if v := getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		cfg.Mail.SMTPPort = port
	}

	str("SESSION_SECRET", &cfg.Auth.SessionSecret)
	if v := getenv("LOGIN_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LOGIN_TOKEN_TTL %q: %w", v, err)
		}
		cfg.Auth.LoginTokenTTL = ttl
	}
	if v := getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.Auth.SessionTTL = ttl
	}

	str("SECRETARIAT_DOMAIN", &cfg.Domain)
	str("PROTOCOL", &cfg.Protocol)
	str("HOSTNAME", &cfg.Host)
	str("USERS_API", &cfg.UsersAPI)
	str("USER_MIN_START_DATE", &cfg.MinStartDate)

	return nil
}
