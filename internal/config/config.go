package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SourceConfig describes where survey responses are read from
type SourceConfig struct {
	Kind            string        `yaml:"kind" envconfig:"KIND" default:"csv"`
	URL             string        `yaml:"url" envconfig:"URL" default:"https://docs.google.com/spreadsheets/d/e/2PACX-1vTSb09AJoTWy7rivoymiFsvRTpNxm3XKgvQ4lghKLTCBKWEVKbGvdl4FpuUueFP-WFu_1NeSf5nheNS/pub?output=csv"`
	Path            string        `yaml:"path" envconfig:"FILE"`
	SheetID         string        `yaml:"sheet_id" envconfig:"SHEET_ID"`
	SheetRange      string        `yaml:"sheet_range" envconfig:"SHEET_RANGE" default:"A1:Z"`
	APIKey          string        `yaml:"api_key" envconfig:"API_KEY"`
	CredentialsFile string        `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
	CacheTTL        time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"1h"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"30s"`
	MaxCacheEntries int           `yaml:"max_cache_entries" envconfig:"MAX_CACHE_ENTRIES" default:"16"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// TelemetryConfig toggles OpenTelemetry tracing and metrics
type TelemetryConfig struct {
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING" default:"false"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"stdout"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration using the given YAML file, which may be empty.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, switches, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, switches, cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileSwitches holds the boolean settings a config file spells out, so an
// explicit false can be told apart from an absent key.
type fileSwitches struct {
	Security struct {
		RateLimit struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"rate_limit"`
	} `yaml:"security"`
	Telemetry struct {
		EnableMetrics *bool `yaml:"enable_metrics"`
		EnableTracing *bool `yaml:"enable_tracing"`
	} `yaml:"telemetry"`
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, fileSwitches, error) {
	var switches fileSwitches

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, switches, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, switches, err
	}
	if err := yaml.Unmarshal(data, &switches); err != nil {
		return nil, switches, err
	}

	return &cfg, switches, nil
}

// mergeConfigs merges file config into env config. A file value is used
// only when it is set and the matching environment variable is not.
func mergeConfigs(fileConfig Config, switches fileSwitches, envConfig Config) Config {
	out := envConfig

	out.Server.Port = pick("SERVER_PORT", out.Server.Port, fileConfig.Server.Port)
	out.Server.ReadTimeout = pick("SERVER_READ_TIMEOUT", out.Server.ReadTimeout, fileConfig.Server.ReadTimeout)
	out.Server.WriteTimeout = pick("SERVER_WRITE_TIMEOUT", out.Server.WriteTimeout, fileConfig.Server.WriteTimeout)
	out.Server.IdleTimeout = pick("SERVER_IDLE_TIMEOUT", out.Server.IdleTimeout, fileConfig.Server.IdleTimeout)
	out.Server.ShutdownTimeout = pick("SERVER_SHUTDOWN_TIMEOUT", out.Server.ShutdownTimeout, fileConfig.Server.ShutdownTimeout)

	out.Source.Kind = pick("SOURCE_KIND", out.Source.Kind, fileConfig.Source.Kind)
	out.Source.URL = pick("SOURCE_URL", out.Source.URL, fileConfig.Source.URL)
	out.Source.Path = pick("SOURCE_FILE", out.Source.Path, fileConfig.Source.Path)
	out.Source.SheetID = pick("SOURCE_SHEET_ID", out.Source.SheetID, fileConfig.Source.SheetID)
	out.Source.SheetRange = pick("SOURCE_SHEET_RANGE", out.Source.SheetRange, fileConfig.Source.SheetRange)
	out.Source.APIKey = pick("SOURCE_API_KEY", out.Source.APIKey, fileConfig.Source.APIKey)
	out.Source.CredentialsFile = pick("SOURCE_CREDENTIALS_FILE", out.Source.CredentialsFile, fileConfig.Source.CredentialsFile)
	out.Source.CacheTTL = pick("SOURCE_CACHE_TTL", out.Source.CacheTTL, fileConfig.Source.CacheTTL)
	out.Source.FetchTimeout = pick("SOURCE_FETCH_TIMEOUT", out.Source.FetchTimeout, fileConfig.Source.FetchTimeout)
	out.Source.MaxCacheEntries = pick("SOURCE_MAX_CACHE_ENTRIES", out.Source.MaxCacheEntries, fileConfig.Source.MaxCacheEntries)

	out.Security.RateLimit.RPS = pick("SECURITY_RATE_LIMIT_RPS", out.Security.RateLimit.RPS, fileConfig.Security.RateLimit.RPS)
	out.Security.RateLimit.Burst = pick("SECURITY_RATE_LIMIT_BURST", out.Security.RateLimit.Burst, fileConfig.Security.RateLimit.Burst)
	out.Security.RateLimit.Enabled = pickSet("SECURITY_RATE_LIMIT_ENABLED", out.Security.RateLimit.Enabled, switches.Security.RateLimit.Enabled)

	out.Logging.Level = pick("LOGGING_LEVEL", out.Logging.Level, fileConfig.Logging.Level)
	out.Logging.Output = pick("LOGGING_OUTPUT", out.Logging.Output, fileConfig.Logging.Output)
	out.Logging.FilePath = pick("LOGGING_FILE_PATH", out.Logging.FilePath, fileConfig.Logging.FilePath)

	out.Telemetry.EnableMetrics = pickSet("TELEMETRY_ENABLE_METRICS", out.Telemetry.EnableMetrics, switches.Telemetry.EnableMetrics)
	out.Telemetry.EnableTracing = pickSet("TELEMETRY_ENABLE_TRACING", out.Telemetry.EnableTracing, switches.Telemetry.EnableTracing)
	out.Telemetry.TraceExporter = pick("TELEMETRY_TRACE_EXPORTER", out.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter)
	out.Telemetry.SampleRatio = pick("TELEMETRY_SAMPLE_RATIO", out.Telemetry.SampleRatio, fileConfig.Telemetry.SampleRatio)
	out.Telemetry.Environment = pick("TELEMETRY_ENVIRONMENT", out.Telemetry.Environment, fileConfig.Telemetry.Environment)

	return out
}

// pick returns fileVal when it is non-zero and the env variable is unset.
func pick[T comparable](envKey string, envVal, fileVal T) T {
	var zero T
	if fileVal == zero {
		return envVal
	}
	if _, ok := os.LookupEnv(EnvPrefix + "_" + envKey); ok {
		return envVal
	}
	return fileVal
}

// pickSet returns *fileVal when the file set it and the env variable is unset.
func pickSet[T any](envKey string, envVal T, fileVal *T) T {
	if fileVal == nil {
		return envVal
	}
	if _, ok := os.LookupEnv(EnvPrefix + "_" + envKey); ok {
		return envVal
	}
	return *fileVal
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if err := c.Source.Validate(); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// Validate checks that the source kind has what it needs
func (s *SourceConfig) Validate() error {
	s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))

	switch s.Kind {
	case SourceKindCSV:
		if s.URL == "" {
			return fmt.Errorf("source url is required for kind %q", s.Kind)
		}
		u, err := url.Parse(s.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("source url must be an http(s) URL: %q", s.URL)
		}
	case SourceKindFile:
		if s.Path == "" {
			return fmt.Errorf("source path is required for kind %q", s.Kind)
		}
	case SourceKindSheets:
		if s.SheetID == "" {
			return fmt.Errorf("sheet id is required for kind %q", s.Kind)
		}
		if s.APIKey == "" && s.CredentialsFile == "" {
			return fmt.Errorf("api key or credentials file is required for kind %q", s.Kind)
		}
	default:
		return fmt.Errorf("unknown source kind: %q", s.Kind)
	}

	if s.CacheTTL <= 0 {
		return fmt.Errorf("source cache ttl must be positive")
	}

	if s.FetchTimeout <= 0 {
		return fmt.Errorf("source fetch timeout must be positive")
	}

	return nil
}

// Location returns the identifier the loader caches results under.
func (s SourceConfig) Location() string {
	switch s.Kind {
	case SourceKindFile:
		return s.Path
	case SourceKindSheets:
		return fmt.Sprintf("sheets:%s!%s", s.SheetID, s.SheetRange)
	default:
		return s.URL
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Source: SourceConfig{
			Kind:            SourceKindCSV,
			URL:             DefaultSourceURL,
			SheetRange:      "A1:Z",
			CacheTTL:        DefaultCacheTTL,
			FetchTimeout:    DefaultFetchTimeout,
			MaxCacheEntries: 16,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Telemetry: TelemetryConfig{
			EnableMetrics: true,
			TraceExporter: "stdout",
			SampleRatio:   1.0,
			Environment:   "development",
		},
	}
}
