package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	API        APIConfig        `yaml:"api"`
	Database   DatabaseConfig   `yaml:"database"`
	NATS       NATSConfig       `yaml:"nats"`
	Log        LogConfig        `yaml:"log"`
	Airports   AirportsConfig   `yaml:"airports"`
	Equipment  EquipmentConfig  `yaml:"equipment"`
	Activation ActivationConfig `yaml:"activation"`
	Notify     NotifyConfig     `yaml:"notify"`
	Client     ClientConfig     `yaml:"client"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// APIConfig represents API configuration
type APIConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Addr returns the listen address
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig represents database configuration.
// An empty DSN selects the in-memory store.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// NATSConfig represents NATS configuration
type NATSConfig struct {
	URL               string        `yaml:"url"`
	ClientID          string        `yaml:"client_id"`
	Username          string        `yaml:"username"`
	Password          string        `yaml:"password"`
	SubjectPrefix     string        `yaml:"subject_prefix"`
	MaxReconnects     int           `yaml:"max_reconnects"`
	ReconnectInterval time.Duration `yaml:"reconnect_interval"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AirportsConfig holds the per-airport access PINs, keyed by airport name
type AirportsConfig struct {
	PINs map[string]string `yaml:"pins"`
}

// EquipmentConfig controls the simulated equipment activation service
type EquipmentConfig struct {
	GPULatency time.Duration `yaml:"gpu_latency"`
	ACULatency time.Duration `yaml:"acu_latency"`
}

// ActivationConfig controls the technician-side activation controller
type ActivationConfig struct {
	MessageTTL     time.Duration `yaml:"message_ttl"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// NotifyConfig lists operator notification targets
type NotifyConfig struct {
	URLs   []string `yaml:"urls"`
	Events []string `yaml:"events"`
}

// ClientConfig represents the technician client configuration
type ClientConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from file
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// LoadOptional is Load, except that a missing file yields the defaults with
// environment overrides applied
func LoadOptional(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Parse(nil)
	}
	return Load(filename)
}

// Parse decodes YAML configuration, then applies environment overrides and defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Apply environment overrides
	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Database.DSN = dsn
	}

	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		c.NATS.URL = natsURL
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Log.Level = logLevel
	}

	if apiURL := os.Getenv("API_URL"); apiURL != "" {
		c.Client.BaseURL = apiURL
	}

	if urls := os.Getenv("NOTIFY_URLS"); urls != "" {
		c.Notify.URLs = strings.Split(urls, ",")
	}
}

// applyDefaults fills zero values
func (c *Config) applyDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "groundops"
	}
	if c.Server.Version == "" {
		c.Server.Version = "1.0.0"
	}

	if c.API.Port == 0 {
		c.API.Port = 8000
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"*"}
	}
	if c.API.RequestTimeout == 0 {
		c.API.RequestTimeout = 60 * time.Second
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 5 * time.Minute
	}

	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "groundops"
	}
	if c.NATS.ClientID == "" {
		c.NATS.ClientID = "groundops-server"
	}
	if c.NATS.ReconnectInterval == 0 {
		c.NATS.ReconnectInterval = 2 * time.Second
	}
	if c.NATS.MaxReconnects == 0 {
		c.NATS.MaxReconnects = 60
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Airports.PINs == nil {
		c.Airports.PINs = map[string]string{}
	}
	for name, pin := range defaultPINs {
		if _, ok := c.Airports.PINs[name]; !ok {
			c.Airports.PINs[name] = pin
		}
	}

	if c.Equipment.GPULatency == 0 {
		c.Equipment.GPULatency = 1500 * time.Millisecond
	}
	if c.Equipment.ACULatency == 0 {
		c.Equipment.ACULatency = 1200 * time.Millisecond
	}

	if c.Activation.MessageTTL == 0 {
		c.Activation.MessageTTL = 3 * time.Second
	}

	if len(c.Notify.Events) == 0 {
		c.Notify.Events = []string{"airport.access_denied"}
	}

	if c.Client.BaseURL == "" {
		c.Client.BaseURL = "http://localhost:8000"
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = 30 * time.Second
	}
}

var defaultPINs = map[string]string{
	"Riyadh": "5555",
	"Dammam": "6666",
	"Jeddah": "7777",
}

// Validate checks values that have no sensible default
func (c *Config) Validate() error {
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid api port: %d", c.API.Port)
	}
	if c.Activation.RequestTimeout < 0 {
		return fmt.Errorf("activation request_timeout must not be negative")
	}
	for name, pin := range c.Airports.PINs {
		if pin == "" {
			return fmt.Errorf("empty PIN for airport %s", name)
		}
	}
	return nil
}
