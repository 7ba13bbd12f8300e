package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration. Values are resolved in
// order: defaults -> config file(s) -> LINGUA_* environment variables ->
// command-line flags (highest priority).
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
	LLM         LLMConfig     `toml:"llm"`
	PDF         PDFConfig     `toml:"pdf"`
	Indexer     IndexerConfig `toml:"indexer"`
	Chat        ChatConfig    `toml:"chat"`
	Session     SessionConfig `toml:"session"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// AuthConfig carries the two access secrets. Each password maps to one
// language profile; there is no other credential mechanism.
type AuthConfig struct {
	KoreanPassword  string `toml:"korean_password" validate:"required"`
	EnglishPassword string `toml:"english_password" validate:"required"`
}

// LLMConfig configures the hosted generation/embedding provider.
type LLMConfig struct {
	Provider        string  `toml:"provider" validate:"oneof=gemini claude offline"`
	GoogleAPIKey    string  `toml:"google_api_key"`
	AnthropicAPIKey string  `toml:"anthropic_api_key"`
	ChatModelName   string  `toml:"chat_model"`
	EmbedModelName  string  `toml:"embed_model"`
	EmbedDimension  int     `toml:"embed_dimension" validate:"gt=0"`
	Temperature     float32 `toml:"temperature"`
	Timeout         string  `toml:"timeout"`
	MaxTokens       int     `toml:"max_tokens"`
	RatePerMinute   int     `toml:"rate_per_minute" validate:"gt=0"`
}

type PDFConfig struct {
	// MaxPages is the upload page ceiling. Longer documents are rejected
	// before any extraction or LLM call.
	MaxPages int `toml:"max_pages" validate:"gt=0"`
}

type IndexerConfig struct {
	ChunkSize    int    `toml:"chunk_size" validate:"gt=0"`
	ChunkOverlap int    `toml:"chunk_overlap" validate:"gte=0"`
	FetchTimeout string `toml:"fetch_timeout"`
	UserAgent    string `toml:"user_agent"`
	MaxBodySize  int    `toml:"max_body_size" validate:"gt=0"`
}

type ChatConfig struct {
	// MaxChunks is the number of chunks retrieved for one grounded answer.
	MaxChunks int `toml:"max_chunks" validate:"gt=0"`
}

type SessionConfig struct {
	TTL string `toml:"ttl"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8600,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			ChatModelName:  "gemini-2.0-flash",
			EmbedModelName: "gemini-embedding-001",
			EmbedDimension: 768,
			Temperature:    0.2,
			Timeout:        "60s",
			MaxTokens:      8192,
			RatePerMinute:  30,
		},
		PDF: PDFConfig{
			MaxPages: 3,
		},
		Indexer: IndexerConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			FetchTimeout: "30s",
			UserAgent:    "lingua/1.0",
			MaxBodySize:  10 * 1024 * 1024,
		},
		Chat: ChatConfig{
			MaxChunks: 4,
		},
		Session: SessionConfig{
			TTL: "12h",
		},
	}
}

// LoadFromFiles loads configuration from defaults, then each config file in
// order (later files override earlier ones), then environment variables.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Zero values leave the config untouched.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks structural constraints, secrets, and the language table.
// Missing secrets are a fatal startup condition.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.LLM.Provider {
	case "gemini":
		if c.LLM.GoogleAPIKey == "" {
			return fmt.Errorf("llm.google_api_key is required for the gemini provider (or set LINGUA_GOOGLE_API_KEY)")
		}
	case "claude":
		if c.LLM.AnthropicAPIKey == "" {
			return fmt.Errorf("llm.anthropic_api_key is required for the claude provider (or set LINGUA_ANTHROPIC_API_KEY)")
		}
		if c.LLM.GoogleAPIKey == "" {
			return fmt.Errorf("llm.google_api_key is required for embeddings when the claude provider is selected")
		}
	}

	if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
		return fmt.Errorf("invalid llm.timeout %q: %w", c.LLM.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Indexer.FetchTimeout); err != nil {
		return fmt.Errorf("invalid indexer.fetch_timeout %q: %w", c.Indexer.FetchTimeout, err)
	}
	if _, err := time.ParseDuration(c.Session.TTL); err != nil {
		return fmt.Errorf("invalid session.ttl %q: %w", c.Session.TTL, err)
	}
	if c.Indexer.ChunkOverlap >= c.Indexer.ChunkSize {
		return fmt.Errorf("indexer.chunk_overlap (%d) must be smaller than indexer.chunk_size (%d)", c.Indexer.ChunkOverlap, c.Indexer.ChunkSize)
	}
	if c.Auth.KoreanPassword == c.Auth.EnglishPassword {
		return fmt.Errorf("auth.korean_password and auth.english_password must differ")
	}

	return nil
}

// SessionTTL returns the parsed session lifetime. Validate guarantees the
// duration parses.
func (c *Config) SessionTTL() time.Duration {
	d, _ := time.ParseDuration(c.Session.TTL)
	return d
}

// applyEnvOverrides applies LINGUA_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LINGUA_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("LINGUA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LINGUA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("LINGUA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if provider := os.Getenv("LINGUA_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if key := os.Getenv("LINGUA_GOOGLE_API_KEY"); key != "" {
		config.LLM.GoogleAPIKey = key
	}
	if key := os.Getenv("LINGUA_ANTHROPIC_API_KEY"); key != "" {
		config.LLM.AnthropicAPIKey = key
	}
	if pw := os.Getenv("LINGUA_KOR_PASSWORD"); pw != "" {
		config.Auth.KoreanPassword = pw
	}
	if pw := os.Getenv("LINGUA_EN_PASSWORD"); pw != "" {
		config.Auth.EnglishPassword = pw
	}
	if maxPages := os.Getenv("LINGUA_PDF_MAX_PAGES"); maxPages != "" {
		if mp, err := strconv.Atoi(maxPages); err == nil {
			config.PDF.MaxPages = mp
		}
	}
	if chunkSize := os.Getenv("LINGUA_INDEXER_CHUNK_SIZE"); chunkSize != "" {
		if cs, err := strconv.Atoi(chunkSize); err == nil {
			config.Indexer.ChunkSize = cs
		}
	}
	if overlap := os.Getenv("LINGUA_INDEXER_CHUNK_OVERLAP"); overlap != "" {
		if co, err := strconv.Atoi(overlap); err == nil {
			config.Indexer.ChunkOverlap = co
		}
	}
	if ttl := os.Getenv("LINGUA_SESSION_TTL"); ttl != "" {
		config.Session.TTL = ttl
	}
}
