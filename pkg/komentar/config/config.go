package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/komentar/pkg/komentar"
	"github.com/cognicore/komentar/pkg/komentar/dataset"
	"github.com/cognicore/komentar/pkg/komentar/internalerr"
	"github.com/cognicore/komentar/pkg/komentar/samples"
)

// Config is the application configuration
type Config struct {
	Dataset   DatasetConfig             `yaml:"dataset"`
	Stopwords StopwordsConfig           `yaml:"stopwords"`
	Store     StoreConfig               `yaml:"store"`
	Log       LogConfig                 `yaml:"log"`
	Server    ServerConfig              `yaml:"server"`
	WordCloud komentar.WordCloudOptions `yaml:"wordcloud"`
	Samples   SamplesConfig             `yaml:"samples"`
}

// DatasetConfig selects where comments are read from. Exactly one of Path,
// URL or FromStore must be set.
type DatasetConfig struct {
	Path      string          `yaml:"path"`
	URL       string          `yaml:"url"`
	FromStore bool            `yaml:"from_store"`
	Timeout   time.Duration   `yaml:"timeout"`
	Columns   dataset.Columns `yaml:"columns"`
}

// StopwordsConfig holds the stopword list location
type StopwordsConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig holds the sqlite database location. An empty path keeps
// everything in memory.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CorsOrigins     []string      `yaml:"cors_origins"`
	RateLimit       RateLimit     `yaml:"rate_limit"`
}

// RateLimit bounds requests per client IP. RPS <= 0 disables limiting.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// SamplesConfig holds term sample settings
type SamplesConfig struct {
	Limit int `yaml:"limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Timeout: 30 * time.Second,
			Columns: dataset.DefaultColumns(),
		},
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CorsOrigins:     []string{"*"},
			RateLimit:       RateLimit{RPS: 20, Burst: 40},
		},
		WordCloud: komentar.DefaultWordCloud(),
		Samples:   SamplesConfig{Limit: samples.DefaultLimit},
	}
}

// Load reads a YAML file over the defaults, applies environment overrides
// and validates the result. An empty path uses defaults and environment
// only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads .env style files into the process environment. Missing
// files are ignored; variables already set are kept.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: load %s: %v", internalerr.ErrInvalidConfig, f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from KOMENTAR_* environment variables.
func (c *Config) ApplyEnv() {
	c.Dataset.Path = getEnv("KOMENTAR_DATASET_PATH", c.Dataset.Path)
	c.Dataset.URL = getEnv("KOMENTAR_DATASET_URL", c.Dataset.URL)
	c.Dataset.FromStore = getEnvAsBool("KOMENTAR_DATASET_FROM_STORE", c.Dataset.FromStore)
	c.Dataset.Timeout = getEnvAsDuration("KOMENTAR_DATASET_TIMEOUT", c.Dataset.Timeout)
	c.Stopwords.Path = getEnv("KOMENTAR_STOPWORDS_PATH", c.Stopwords.Path)
	c.Store.Path = getEnv("KOMENTAR_STORE_PATH", c.Store.Path)
	c.Log.Level = getEnv("KOMENTAR_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("KOMENTAR_LOG_FILE", c.Log.File)
	c.Server.Host = getEnv("KOMENTAR_SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsInt("KOMENTAR_SERVER_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvAsDuration("KOMENTAR_SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsDuration("KOMENTAR_SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getEnvAsDuration("KOMENTAR_SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.CorsOrigins = getEnvAsSlice("KOMENTAR_SERVER_CORS_ORIGINS", c.Server.CorsOrigins)
	c.Server.RateLimit.RPS = getEnvAsFloat("KOMENTAR_RATE_LIMIT_RPS", c.Server.RateLimit.RPS)
	c.Server.RateLimit.Burst = getEnvAsInt("KOMENTAR_RATE_LIMIT_BURST", c.Server.RateLimit.Burst)
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	sources := 0
	if c.Dataset.Path != "" {
		sources++
	}
	if c.Dataset.URL != "" {
		sources++
	}
	if c.Dataset.FromStore {
		sources++
	}
	switch {
	case sources == 0:
		return fmt.Errorf("%w: dataset needs one of path, url or from_store", internalerr.ErrInvalidConfig)
	case sources > 1:
		return fmt.Errorf("%w: dataset path, url and from_store are mutually exclusive", internalerr.ErrInvalidConfig)
	}
	if c.Dataset.FromStore && c.Store.Path == "" {
		return fmt.Errorf("%w: dataset.from_store requires store.path", internalerr.ErrInvalidConfig)
	}
	if c.WordCloud.N < 1 || c.WordCloud.N > komentar.MaxNgram {
		return fmt.Errorf("%w: wordcloud.ngram must be between 1 and %d", internalerr.ErrInvalidConfig, komentar.MaxNgram)
	}
	if c.WordCloud.TopN < 1 {
		return fmt.Errorf("%w: wordcloud.top_n must be positive", internalerr.ErrInvalidConfig)
	}
	if c.WordCloud.MinTokenLen < 0 {
		return fmt.Errorf("%w: wordcloud.min_token_len must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.Samples.Limit < 0 {
		return fmt.Errorf("%w: samples.limit must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", internalerr.ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
