package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/anamnesis/internal/doorknob"
	"github.com/abhisek/anamnesis/internal/llm"
	"github.com/abhisek/anamnesis/internal/store"
)

// isolate keeps the host environment out of Load.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, doorknob.DefaultConfig(), cfg.Doorknob)
	assert.Equal(t, 2, cfg.Classifier.MinScore)
	assert.Zero(t, cfg.Classifier.MinInputWordLen)
	assert.Equal(t, store.DefaultQueueSize, cfg.Recorder.QueueSize)
	assert.Equal(t, 256, cfg.Sessions.Max)
	assert.Equal(t, llm.ProviderNone, cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.Redis.OpenTimeout)
	assert.Equal(t, 200, cfg.Freeform.MaxTokens)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("ANAMNESIS_DOORKNOB_TRIGGER_PROBABILITY", "0.5")
	t.Setenv("ANAMNESIS_SESSIONS_MAX", "12")
	t.Setenv("ANAMNESIS_SERVER_READ_TIMEOUT", "3s")

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Doorknob.TriggerProbability)
	assert.Equal(t, 12, cfg.Sessions.Max)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: memory
doorknob:
  red_flag_probability: 1
classifier:
  min_score: 3
  min_input_word_len: 3
`), 0o644))

	cfg, err := Load(LoadOptions{File: path, EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 1.0, cfg.Doorknob.RedFlagProbability)
	assert.Equal(t, doorknob.DefaultTriggerProbability, cfg.Doorknob.TriggerProbability)
	assert.Equal(t, 3, cfg.Classifier.MinScore)
	assert.Equal(t, 3, cfg.Classifier.MinInputWordLen)
}

func TestLoad_XDGConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "anamnesis"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anamnesis", "anamnesis.yaml"),
		[]byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(LoadOptions{File: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	const key = "ANAMNESIS_RECORDER_QUEUE_SIZE"
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { os.Unsetenv(key) })

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=9\n"), 0o644))

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Recorder.QueueSize)
}

func TestLoad_DiscoversProvider(t *testing.T) {
	dir := isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"redis without url", func(c *Config) { c.Store.Backend = BackendRedis; c.Redis.URL = "" }},
		{"min score zero", func(c *Config) { c.Classifier.MinScore = 0 }},
		{"negative input word length", func(c *Config) { c.Classifier.MinInputWordLen = -1 }},
		{"trigger above one", func(c *Config) { c.Doorknob.TriggerProbability = 1.5 }},
		{"red flag negative", func(c *Config) { c.Doorknob.RedFlagProbability = -0.1 }},
		{"empty queue", func(c *Config) { c.Recorder.QueueSize = 0 }},
		{"no sessions", func(c *Config) { c.Sessions.Max = 0 }},
		{"provider without key", func(c *Config) { c.LLM.Provider = llm.ProviderAnthropic }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"empty server addr", func(c *Config) { c.Server.Addr = "" }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "anamnesis.log")
	logger, err := NewLogger(LogConfig{Level: "warn", Format: "json", File: path}, false, false)
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(-1)) // debug
	logger.Warn("hello")
	require.NoError(t, logger.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")

	verbose, err := NewLogger(LogConfig{Level: "warn", Format: "json", File: path}, true, false)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(-1))
}
