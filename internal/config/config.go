package config

import "time"

// Default configuration values.
const (
	defaultServiceName         = "topicbot"
	defaultServiceVersion      = "1.0.0"
	defaultServicePort         = 8080
	defaultCatalogPath         = "data/topics.json"
	defaultOracleBaseURL       = "https://openrouter.ai/api/v1"
	defaultOracleModel         = "mistralai/mistral-7b-instruct"
	defaultOracleMaxTokens     = 10
	defaultOracleTimeoutSec    = 30
	defaultOracleRPM           = 60
	defaultConfidenceThreshold = 700
	defaultFallbackTopic       = "Scholarship"
	defaultOracleCandidates    = 4
	defaultLogLevel            = "info"
	defaultLogFormat           = "json"
)

// Config holds all configuration for the topicbot service.
type Config struct {
	Service        ServiceConfig        `yaml:"service"`
	Catalog        CatalogConfig        `yaml:"catalog"`
	Oracle         OracleConfig         `yaml:"oracle"`
	Classification ClassificationConfig `yaml:"classification"`
	Logging        LoggingConfig        `yaml:"logging"`
	Auth           AuthConfig           `yaml:"auth"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"TOPICBOT_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"     yaml:"debug"`
}

// CatalogConfig holds topic catalog configuration.
type CatalogConfig struct {
	// Path is the JSON file holding the topic entries, loaded once at
	// startup.
	Path string `env:"JSON_PATH" yaml:"path"`
}

// OracleConfig holds configuration for the disambiguation oracle
// (an OpenRouter-compatible chat completion API).
type OracleConfig struct {
	BaseURL string `env:"ORACLE_BASE_URL"    yaml:"base_url"`
	APIKey  string `env:"OPENROUTER_API_KEY" yaml:"api_key"`
	Model   string `env:"ORACLE_MODEL"       yaml:"model"`
	// MaxTokens caps the completion length; the answer is a single topic
	// name or "none".
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
	// RequestsPerMinute bounds oracle spend; exhaustion within the call
	// timeout degrades to a no-match answer.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// ClassificationConfig holds the tunable classification settings.
type ClassificationConfig struct {
	// ConfidenceThreshold is the minimum weighted score (0-1200) at which
	// local matching is trusted enough to consult the oracle. Below it the
	// engine answers with FallbackTopic without an oracle call.
	ConfidenceThreshold int `env:"CONFIDENCE_THRESHOLD" yaml:"confidence_threshold"`
	// FallbackTopic is the topic name reported for low-confidence messages.
	FallbackTopic string `env:"FALLBACK_TOPIC" yaml:"fallback_topic"`
	// MaxOracleCandidates is how many top-ranked entries are offered to the
	// oracle for disambiguation.
	MaxOracleCandidates int `yaml:"max_oracle_candidates"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// AuthConfig holds webhook authentication configuration.
type AuthConfig struct {
	// WebhookSecret is the shared secret the webhook caller must present
	// in the X-Auth-Token header.
	WebhookSecret string `env:"BOT_SECRET" yaml:"webhook_secret"`
}

// Load loads configuration from the specified path with defaults and
// environment overrides applied.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultServiceVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = defaultCatalogPath
	}
	setOracleDefaults(&cfg.Oracle)
	setClassificationDefaults(&cfg.Classification)
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
}

func setOracleDefaults(o *OracleConfig) {
	if o.BaseURL == "" {
		o.BaseURL = defaultOracleBaseURL
	}
	if o.Model == "" {
		o.Model = defaultOracleModel
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = defaultOracleMaxTokens
	}
	if o.Timeout == 0 {
		o.Timeout = defaultOracleTimeoutSec * time.Second
	}
	if o.RequestsPerMinute == 0 {
		o.RequestsPerMinute = defaultOracleRPM
	}
}

func setClassificationDefaults(c *ClassificationConfig) {
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = defaultConfidenceThreshold
	}
	if c.FallbackTopic == "" {
		c.FallbackTopic = defaultFallbackTopic
	}
	if c.MaxOracleCandidates == 0 {
		c.MaxOracleCandidates = defaultOracleCandidates
	}
}
