package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	Payments   PaymentsConfig   `yaml:"payments"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name          string `yaml:"name"`
	Environment   string `yaml:"environment"`
	Version       string `yaml:"version"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type ServerConfig struct {
	Port        int             `yaml:"port"`
	AdminAPIKey string          `yaml:"admin_api_key"`
	HeaderKey   string          `yaml:"header_api_key"`
	RateLimit   ServerRateLimit `yaml:"rate_limit"`
}

type ServerRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AuthConfig struct {
	CodeTTLSeconds    int `yaml:"code_ttl_seconds"`
	SendLimitPerPhone int `yaml:"send_limit_per_phone"`
	SendLimitWindow   int `yaml:"send_limit_window"`
}

type PaymentsConfig struct {
	DefaultGateway string `yaml:"default_gateway"`
	WebhookSecret  string `yaml:"webhook_secret"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the YAML config at configPath, expanding ${ENV} references.
// A .env file is loaded first when present.
func Load(configPath string) (*Config, error) {
	// .env нужен только для локальной разработки
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Auth.CodeTTLSeconds < 0 {
		return errors.New("auth.code_ttl_seconds must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "armancoffee"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.App.PublicBaseURL == "" {
		c.App.PublicBaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Server.HeaderKey == "" {
		c.Server.HeaderKey = "x-api-key"
	}
	if c.Auth.CodeTTLSeconds == 0 {
		c.Auth.CodeTTLSeconds = 300
	}
	if c.Auth.SendLimitPerPhone == 0 {
		c.Auth.SendLimitPerPhone = 5
	}
	if c.Auth.SendLimitWindow == 0 {
		c.Auth.SendLimitWindow = 600
	}
	if c.Payments.DefaultGateway == "" {
		c.Payments.DefaultGateway = "mockpay"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// IsProduction reports whether the app runs in the production environment.
// OTP debug codes are only echoed back outside production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
