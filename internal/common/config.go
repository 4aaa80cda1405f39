// -----------------------------------------------------------------------
// Configuration - TOML file + environment + CLI override loading
// -----------------------------------------------------------------------

package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root configuration for the docere service.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Logging     LoggingConfig     `toml:"logging"`
	Storage     StorageConfig     `toml:"storage"`
	LLM         LLMConfig         `toml:"llm"`
	Gemini      GeminiConfig      `toml:"gemini"`
	Claude      ClaudeConfig      `toml:"claude"`
	Vector      VectorConfig      `toml:"vector"`
	RAG         RAGConfig         `toml:"rag"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string   `toml:"level"`
	Output []string `toml:"output"` // "stdout", "file"
}

// StorageConfig contains badger settings.
type StorageConfig struct {
	Dir            string `toml:"dir"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// LLMConfig selects the generation provider and bounds its calls.
type LLMConfig struct {
	Provider       string  `toml:"provider"` // "gemini" or "claude"
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	RateBurst      int     `toml:"rate_burst"`
}

// GeminiConfig contains Google Gemini settings (also the embedding backend).
type GeminiConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
}

// ClaudeConfig contains Anthropic Claude settings.
type ClaudeConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// VectorConfig contains vector index settings.
type VectorConfig struct {
	Dir       string `toml:"dir"`
	Dimension int    `toml:"dimension"`
	Compress  bool   `toml:"compress"`
}

// RAGConfig contains chunking and retrieval settings.
type RAGConfig struct {
	ChunkSize               int `toml:"chunk_size"`                // character budget per chunk
	OverlapSentences        int `toml:"overlap_sentences"`         // sentences carried into the next chunk
	MinChunkLen             int `toml:"min_chunk_len"`             // chunks shorter than this are dropped
	TopK                    int `toml:"top_k"`                     // retrieved chunks per question
	StalenessThresholdMin   int `toml:"staleness_threshold_min"`   // INDEXING older than this with no entries is reset
	HistoryLimit            int `toml:"history_limit"`             // max query records returned per history read
	DownloadTimeoutSeconds  int `toml:"download_timeout_seconds"`  // content download budget
	EmbedConcurrency        int `toml:"embed_concurrency"`         // parallel vector inserts
	MaxQuestionLength       int `toml:"max_question_length"`       // validation bound on questions
	ContextChunks           int `toml:"context_chunks"`            // retrieved chunks placed into the prompt
	MaxThreadHistoryTurns   int `toml:"max_thread_history_turns"`  // prior exchanges included for follow-ups
}

// MaintenanceConfig contains scheduled maintenance settings.
type MaintenanceConfig struct {
	Enabled    bool   `toml:"enabled"`
	GCSchedule string `toml:"gc_schedule"` // cron spec for badger value-log GC
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Dir:            "./data/badger",
			ResetOnStartup: false,
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			TimeoutSeconds: 30,
			RatePerSecond:  2,
			RateBurst:      4,
		},
		Gemini: GeminiConfig{
			Model:          "gemini-2.5-flash",
			EmbeddingModel: "gemini-embedding-001",
		},
		Claude: ClaudeConfig{
			Model: "claude-sonnet-4-5",
		},
		Vector: VectorConfig{
			Dir:       "./data/vector",
			Dimension: 384,
			Compress:  true,
		},
		RAG: RAGConfig{
			ChunkSize:              1200,
			OverlapSentences:       2,
			MinChunkLen:            80,
			TopK:                   5,
			StalenessThresholdMin:  20,
			HistoryLimit:           50,
			DownloadTimeoutSeconds: 60,
			EmbedConcurrency:       4,
			MaxQuestionLength:      1000,
			ContextChunks:          3,
			MaxThreadHistoryTurns:  5,
		},
		Maintenance: MaintenanceConfig{
			Enabled:    true,
			GCSchedule: "@every 10m",
		},
	}
}

// LoadConfig loads configuration from the first existing path, then applies
// environment overrides. A missing file is not an error; defaults apply.
func LoadConfig(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		break
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets secrets and deployment settings come from the
// environment instead of the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCERE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DOCERE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DOCERE_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("DOCERE_VECTOR_DIR"); v != "" {
		cfg.Vector.Dir = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Claude.APIKey = v
	}
	if v := os.Getenv("DOCERE_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
}

// Validate checks cross-field constraints that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.LLM.Provider != "gemini" && c.LLM.Provider != "claude" {
		return fmt.Errorf("unknown llm provider: %q", c.LLM.Provider)
	}
	if c.Vector.Dimension <= 0 {
		return fmt.Errorf("vector dimension must be positive, got %d", c.Vector.Dimension)
	}
	if c.RAG.ChunkSize <= c.RAG.MinChunkLen {
		return fmt.Errorf("chunk_size (%d) must exceed min_chunk_len (%d)", c.RAG.ChunkSize, c.RAG.MinChunkLen)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.RAG.TopK)
	}
	return nil
}

// LLMTimeout returns the generation call budget as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// StalenessThreshold returns the indexing staleness cutoff as a duration.
func (c *Config) StalenessThreshold() time.Duration {
	return time.Duration(c.RAG.StalenessThresholdMin) * time.Minute
}

// DownloadTimeout returns the content download budget as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.RAG.DownloadTimeoutSeconds) * time.Second
}
