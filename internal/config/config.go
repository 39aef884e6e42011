// Package config loads application settings from defaults, an optional
// anamnesis.yaml, a .env file and ANAMNESIS_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/anamnesis/internal/doorknob"
	"github.com/abhisek/anamnesis/internal/freeform"
	"github.com/abhisek/anamnesis/internal/interview"
	"github.com/abhisek/anamnesis/internal/llm"
	"github.com/abhisek/anamnesis/internal/questions"
	"github.com/abhisek/anamnesis/internal/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ANAMNESIS"

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Store      StoreConfig       `mapstructure:"store"`
	Redis      store.RedisConfig `mapstructure:"redis"`
	Cases      CasesConfig       `mapstructure:"cases"`
	Classifier ClassifierConfig  `mapstructure:"classifier"`
	Doorknob   doorknob.Config   `mapstructure:"doorknob"`
	Recorder   RecorderConfig    `mapstructure:"recorder"`
	Sessions   SessionsConfig    `mapstructure:"sessions"`
	LLM        llm.Config        `mapstructure:"llm"`
	Freeform   freeform.Config   `mapstructure:"freeform"`
	Server     ServerConfig      `mapstructure:"server"`
	Log        LogConfig         `mapstructure:"log"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"` // Empty resolves to the XDG data dir
}

type CasesConfig struct {
	Dir string `mapstructure:"dir"` // Extra case packs, merged over the built-ins
}

type ClassifierConfig struct {
	MinScore        int `mapstructure:"min_score"`
	MinInputWordLen int `mapstructure:"min_input_word_len"` // 0 scores every input word
}

type RecorderConfig struct {
	QueueSize int `mapstructure:"queue_size"`
}

type SessionsConfig struct {
	Max int `mapstructure:"max"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	File   string `mapstructure:"file"`   // Empty logs to stderr
}

// LoadOptions points Load at explicit files.
type LoadOptions struct {
	// File is a config file that must exist. Empty searches the working
	// directory and $XDG_CONFIG_HOME/anamnesis for anamnesis.yaml.
	File string

	// EnvFile is a dotenv file. Empty tries ".env"; a missing file is
	// not an error.
	EnvFile string
}

// Load resolves the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	} else {
		v.SetConfigName("anamnesis")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Discover()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always decode.
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.path", "")

	rc := store.DefaultRedisConfig()
	v.SetDefault("redis.url", rc.URL)
	v.SetDefault("redis.prefix", rc.Prefix)
	v.SetDefault("redis.failure_threshold", rc.FailureThreshold)
	v.SetDefault("redis.open_timeout", rc.OpenTimeout)

	v.SetDefault("cases.dir", "")
	v.SetDefault("classifier.min_score", questions.DefaultMinScore)
	v.SetDefault("classifier.min_input_word_len", 0)

	dk := doorknob.DefaultConfig()
	v.SetDefault("doorknob.trigger_probability", dk.TriggerProbability)
	v.SetDefault("doorknob.red_flag_probability", dk.RedFlagProbability)

	v.SetDefault("recorder.queue_size", store.DefaultQueueSize)
	v.SetDefault("sessions.max", interview.DefaultMaxSessions)

	lc := llm.DefaultConfig()
	v.SetDefault("llm.provider", lc.Provider)
	v.SetDefault("llm.timeout", lc.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", lc.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", lc.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", lc.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", lc.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", lc.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", lc.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", lc.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", lc.Retry.Multiplier)
	v.SetDefault("llm.breaker.failure_threshold", lc.Breaker.FailureThreshold)
	v.SetDefault("llm.breaker.open_timeout", lc.Breaker.OpenTimeout)

	fc := freeform.DefaultConfig()
	v.SetDefault("freeform.max_tokens", fc.MaxTokens)
	v.SetDefault("freeform.temperature", fc.Temperature)
	v.SetDefault("freeform.timeout", fc.Timeout)
	v.SetDefault("freeform.history_turns", fc.HistoryTurns)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
}

// Validate checks ranges and cross-field requirements.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Classifier.MinScore < 1 {
		return fmt.Errorf("classifier.min_score must be at least 1, got %d", c.Classifier.MinScore)
	}
	if c.Classifier.MinInputWordLen < 0 {
		return fmt.Errorf("classifier.min_input_word_len must not be negative, got %d", c.Classifier.MinInputWordLen)
	}
	if err := c.Doorknob.Validate(); err != nil {
		return err
	}
	if c.Recorder.QueueSize < 1 {
		return fmt.Errorf("recorder.queue_size must be at least 1, got %d", c.Recorder.QueueSize)
	}
	if c.Sessions.Max < 1 {
		return fmt.Errorf("sessions.max must be at least 1, got %d", c.Sessions.Max)
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if c.Freeform.HistoryTurns < 0 {
		return fmt.Errorf("freeform.history_turns must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// configDir returns $XDG_CONFIG_HOME/anamnesis.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "anamnesis"), nil
}
