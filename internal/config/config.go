// Package config loads docsum settings from defaults, an optional YAML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted by SUMMARIZER_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderLead      = "lead"
)

// FileEnv names the environment variable holding the YAML overlay path.
const FileEnv = "DOCSUM_CONFIG"

type Config struct {
	Port string `yaml:"port"`

	// Auth
	DocsumAPIKey string `yaml:"api_key"`

	// Summarizer capability
	Provider          string        `yaml:"provider"`
	AnthropicAPIKey   string        `yaml:"anthropic_api_key"`
	AnthropicModel    string        `yaml:"anthropic_model"`
	AnthropicBaseURL  string        `yaml:"anthropic_base_url"`
	OpenAIAPIKey      string        `yaml:"openai_api_key"`
	OpenAIBaseURL     string        `yaml:"openai_base_url"`
	OpenAIModel       string        `yaml:"openai_model"`
	SummarizerTimeout time.Duration `yaml:"summarizer_timeout"`

	// MaxInputTokens cuts each request to the model's input limit. Zero
	// sends requests whole.
	MaxInputTokens int `yaml:"max_input_tokens"`

	// Summaries
	SentenceCount    int    `yaml:"sentence_count"`
	SentenceSplitter string `yaml:"sentence_splitter"`
	MinInputWords    int    `yaml:"min_input_words"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits. MaxTextBytes bounds the synchronous text endpoint.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	MaxTextBytes   int64 `yaml:"max_text_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port: "8090",

		Provider:          ProviderAnthropic,
		AnthropicModel:    "claude-sonnet-4-5-20250929",
		AnthropicBaseURL:  "https://api.anthropic.com",
		OpenAIModel:       "gpt-4o-mini",
		SummarizerTimeout: 120 * time.Second,

		SentenceCount:    3,
		SentenceSplitter: "punctuation",
		MinInputWords:    50,

		WorkerCount:  4,
		MaxQueueSize: 100,

		MaxUploadBytes: 52428800, // 50MB
		MaxTextBytes:   1048576,  // 1MB

		JobTTL: 1 * time.Hour,

		PDFFallbackPdftotext: true,

		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads the file named by DOCSUM_CONFIG, if any, then applies the
// environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv(FileEnv))
}

// LoadFrom is Load with an explicit overlay path. An empty path skips the file.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyFloors()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)

	c.DocsumAPIKey = envOr("DOCSUM_API_KEY", c.DocsumAPIKey)

	c.Provider = strings.ToLower(envOr("SUMMARIZER_PROVIDER", c.Provider))
	c.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.AnthropicModel = envOr("ANTHROPIC_MODEL", c.AnthropicModel)
	c.AnthropicBaseURL = envOr("ANTHROPIC_BASE_URL", c.AnthropicBaseURL)
	c.OpenAIAPIKey = envOr("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = envOr("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.OpenAIModel = envOr("OPENAI_MODEL", c.OpenAIModel)
	c.SummarizerTimeout = envDuration("SUMMARIZER_TIMEOUT", c.SummarizerTimeout)
	c.MaxInputTokens = envInt("MAX_INPUT_TOKENS", c.MaxInputTokens)

	c.SentenceCount = envInt("SENTENCE_COUNT", c.SentenceCount)
	c.SentenceSplitter = envOr("SENTENCE_SPLITTER", c.SentenceSplitter)
	c.MinInputWords = envInt("MIN_INPUT_WORDS", c.MinInputWords)

	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)

	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.MaxTextBytes = envInt64("MAX_TEXT_BYTES", c.MaxTextBytes)

	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)

	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)

	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOr("LOG_FORMAT", c.LogFormat)
}

// applyFloors replaces non-positive numeric settings with their defaults.
func (c *Config) applyFloors() {
	d := Default()
	if c.SummarizerTimeout <= 0 {
		c.SummarizerTimeout = d.SummarizerTimeout
	}
	if c.MaxInputTokens < 0 {
		c.MaxInputTokens = 0
	}
	if c.SentenceCount <= 0 {
		c.SentenceCount = d.SentenceCount
	}
	if c.MinInputWords < 0 {
		c.MinInputWords = d.MinInputWords
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.MaxTextBytes <= 0 {
		c.MaxTextBytes = d.MaxTextBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
}

// Validate checks the summarizer settings shared by the CLI and the server.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return errors.New("OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai provider")
		}
	case ProviderLead:
	default:
		return fmt.Errorf("invalid provider: %q (valid: anthropic, openai, lead)", c.Provider)
	}

	switch strings.ToLower(strings.TrimSpace(c.SentenceSplitter)) {
	case "", "punctuation", "punkt":
	default:
		return fmt.Errorf("invalid sentence splitter: %q (valid: punctuation, punkt)", c.SentenceSplitter)
	}
	return nil
}

// ValidateServer is Validate plus the settings only the HTTP server needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DocsumAPIKey == "" {
		return errors.New("DOCSUM_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
