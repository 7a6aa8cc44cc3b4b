// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/hallcount/internal/counter"
	"github.com/mmynk/hallcount/internal/matcher"
	"github.com/mmynk/hallcount/internal/share"
)

type Config struct {
	Port   int    `yaml:"port"`
	DBPath string `yaml:"dbPath"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	MatchThreshold int `yaml:"matchThreshold"`
	MaxImageBytes  int `yaml:"maxImageBytes"`

	Counter CounterConfig `yaml:"counter"`
	Share   ShareConfig   `yaml:"share"`
}

type CounterConfig struct {
	Kind           counter.Kind  `yaml:"kind"`
	HeadDelay      time.Duration `yaml:"headDelay"`
	SignatureDelay time.Duration `yaml:"signatureDelay"`
	OpenAIToken    string        `yaml:"openaiToken"`
	GeminiAPIKey   string        `yaml:"geminiApiKey"`
}

type ShareConfig struct {
	// Secret signs share tokens. When empty the server generates one per process.
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Port:           8080,
		DBPath:         "./data/hallcount.db",
		LogLevel:       "info",
		LogFormat:      "text",
		MatchThreshold: matcher.DefaultThreshold,
		MaxImageBytes:  10 << 20,
		Counter: CounterConfig{
			Kind:           counter.KindSimulated,
			HeadDelay:      counter.DefaultHeadDelay,
			SignatureDelay: counter.DefaultSignatureDelay,
		},
		Share: ShareConfig{
			TTL: share.DefaultTTL,
		},
	}
}

// Load builds the configuration. path may be empty, in which case CONFIG_PATH
// is consulted; a missing path means defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []error

	envString("DB_PATH", &c.DBPath)
	envString("LOG_LEVEL", &c.LogLevel)
	envString("LOG_FORMAT", &c.LogFormat)
	envString("OPENAI_TOKEN", &c.Counter.OpenAIToken)
	envString("GEMINI_API_KEY", &c.Counter.GeminiAPIKey)
	envString("SHARE_SECRET", &c.Share.Secret)
	if v := os.Getenv("COUNTER"); v != "" {
		c.Counter.Kind = counter.Kind(v)
	}

	errs = append(errs,
		envInt("PORT", &c.Port),
		envInt("MATCH_THRESHOLD", &c.MatchThreshold),
		envInt("MAX_IMAGE_BYTES", &c.MaxImageBytes),
		envDuration("SHARE_TTL", &c.Share.TTL),
	)

	if v := os.Getenv("SIMULATED_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SIMULATED_DELAY: %w", err))
		} else {
			c.Counter.HeadDelay = d
			c.Counter.SignatureDelay = d
		}
	}

	return errors.Join(errs...)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("dbPath is required"))
	}
	if c.MatchThreshold < 0 {
		errs = append(errs, fmt.Errorf("matchThreshold must be non-negative, got %d", c.MatchThreshold))
	}
	if c.MaxImageBytes <= 0 {
		errs = append(errs, fmt.Errorf("maxImageBytes must be positive, got %d", c.MaxImageBytes))
	}
	if c.Counter.HeadDelay < 0 || c.Counter.SignatureDelay < 0 {
		errs = append(errs, errors.New("counter delays must be non-negative"))
	}
	if c.Share.TTL <= 0 {
		errs = append(errs, fmt.Errorf("share ttl must be positive, got %v", c.Share.TTL))
	}

	switch c.Counter.Kind {
	case counter.KindSimulated:
	case counter.KindOpenAI:
		if c.Counter.OpenAIToken == "" {
			errs = append(errs, errors.New("OPENAI_TOKEN is required for the openai counter"))
		}
	case counter.KindGemini:
		if c.Counter.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini counter"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown counter %q", c.Counter.Kind))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// CounterOptions converts the counter settings for counter.New.
func (c *Config) CounterOptions() counter.Options {
	return counter.Options{
		Kind:           c.Counter.Kind,
		HeadDelay:      c.Counter.HeadDelay,
		SignatureDelay: c.Counter.SignatureDelay,
		OpenAIToken:    c.Counter.OpenAIToken,
		GeminiAPIKey:   c.Counter.GeminiAPIKey,
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
