package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Auth.KoreanPassword = "kor-secret"
	cfg.Auth.EnglishPassword = "en-secret"
	cfg.LLM.GoogleAPIKey = "test-key"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8600, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.PDF.MaxPages)
	assert.Equal(t, 1000, cfg.Indexer.ChunkSize)
	assert.Equal(t, 200, cfg.Indexer.ChunkOverlap)
	assert.Equal(t, 4, cfg.Chat.MaxChunks)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "missing korean password",
			mutate:  func(c *Config) { c.Auth.KoreanPassword = "" },
			wantErr: "invalid configuration",
		},
		{
			name:    "identical passwords",
			mutate:  func(c *Config) { c.Auth.EnglishPassword = c.Auth.KoreanPassword },
			wantErr: "must differ",
		},
		{
			name:    "gemini without api key",
			mutate:  func(c *Config) { c.LLM.GoogleAPIKey = "" },
			wantErr: "google_api_key",
		},
		{
			name: "claude without anthropic key",
			mutate: func(c *Config) {
				c.LLM.Provider = "claude"
				c.LLM.AnthropicAPIKey = ""
			},
			wantErr: "anthropic_api_key",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLM.Provider = "gpt" },
			wantErr: "invalid configuration",
		},
		{
			name:    "overlap not smaller than chunk size",
			mutate:  func(c *Config) { c.Indexer.ChunkOverlap = c.Indexer.ChunkSize },
			wantErr: "chunk_overlap",
		},
		{
			name:    "bad session ttl",
			mutate:  func(c *Config) { c.Session.TTL = "half a day" },
			wantErr: "session.ttl",
		},
		{
			name:    "bad llm timeout",
			mutate:  func(c *Config) { c.LLM.Timeout = "soon" },
			wantErr: "llm.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_OfflineProviderNeedsNoKeys(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "offline"
	cfg.LLM.GoogleAPIKey = ""
	cfg.LLM.AnthropicAPIKey = ""

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lingua.toml")
	content := `
[server]
port = 9100

[auth]
korean_password = "kor-secret"
english_password = "en-secret"

[llm]
provider = "offline"

[pdf]
max_pages = 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "offline", cfg.LLM.Provider)
	assert.Equal(t, 4, cfg.PDF.MaxPages)
	// Untouched values keep their defaults.
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 1000, cfg.Indexer.ChunkSize)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	require.NoError(t, os.WriteFile(base, []byte(`
[server]
port = 9100

[auth]
korean_password = "kor-secret"
english_password = "en-secret"

[llm]
provider = "offline"
`), 0o644))
	require.NoError(t, os.WriteFile(override, []byte(`
[server]
port = 9200
`), 0o644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/lingua.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LINGUA_SERVER_PORT", "9300")
	t.Setenv("LINGUA_KOR_PASSWORD", "kor-env")
	t.Setenv("LINGUA_EN_PASSWORD", "en-env")
	t.Setenv("LINGUA_LLM_PROVIDER", "offline")
	t.Setenv("LINGUA_PDF_MAX_PAGES", "5")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9300, cfg.Server.Port)
	assert.Equal(t, "kor-env", cfg.Auth.KoreanPassword)
	assert.Equal(t, "offline", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.PDF.MaxPages)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := validConfig()

	ApplyFlagOverrides(cfg, 9400, "0.0.0.0")
	assert.Equal(t, 9400, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	ApplyFlagOverrides(cfg, 0, "")
	assert.Equal(t, 9400, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}
