package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/lettervec/internal/chunk"
	"github.com/kalambet/lettervec/internal/engine"
)

type Config struct {
	Embedding EmbeddingConfig
	Store     StoreConfig
	Chunk     ChunkConfig
	Import    ImportConfig
	Server    ServerConfig
	Log       LogConfig
}

type EmbeddingConfig struct {
	Provider   string
	BaseURL    string
	Model      string
	Dimensions int
	APIKey     string
}

type StoreConfig struct {
	Driver     string
	DataDir    string
	URL        string
	ServiceKey string
	Collection string
}

type ChunkConfig struct {
	Mode    string
	Size    int
	Overlap int
}

type ImportConfig struct {
	LettersDir  string
	CatalogPath string
}

type ServerConfig struct {
	Port  int
	Token string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Store: StoreConfig{
			Driver:     "sqlite",
			DataDir:    defaultDataDir(),
			Collection: "documents",
		},
		Chunk: ChunkConfig{
			Mode:    string(chunk.ModeRecursive),
			Size:    chunk.DefaultSize,
			Overlap: chunk.DefaultOverlap,
		},
		Import: ImportConfig{
			LettersDir: "letters",
		},
		Server: ServerConfig{
			Port: 4100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/lettervec/config.json, then applies environment
// variables (LETTERVEC_*), which take precedence. Secrets are only read from
// the environment. Call LoadEnvFiles first to pick up .env files.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)
	applySecretFallbacks(&cfg)
	applyModelDimensions(&cfg)

	return cfg, nil
}

// applyModelDimensions fills embedding.dimensions from the model's known
// vector size when it was not set. Unknown models stay at 0 (unchecked).
func applyModelDimensions(cfg *Config) {
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = engine.ModelDimensions[cfg.Embedding.Model]
	}
}

// ChunkSettings converts the chunk section into a chunk.Config.
func (c Config) ChunkSettings() chunk.Config {
	return chunk.Config{
		Mode:    chunk.Mode(c.Chunk.Mode),
		Size:    c.Chunk.Size,
		Overlap: c.Chunk.Overlap,
	}
}

// SlogLevel maps log.level to a slog.Level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	return ParseLevel(c.Log.Level)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate reports settings that cannot work before any document is read.
func (c Config) Validate() error {
	if err := c.ChunkSettings().Validate(); err != nil {
		return fmt.Errorf("chunk settings: %w", err)
	}
	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("embedding.provider: unknown provider %q (want openai or ollama)", c.Embedding.Provider)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	switch c.Store.Driver {
	case "sqlite":
	case "postgres", "qdrant":
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for the %s driver", c.Store.Driver)
		}
		if c.Embedding.Dimensions == 0 {
			return fmt.Errorf("embedding.dimensions is required for the %s driver", c.Store.Driver)
		}
	default:
		return fmt.Errorf("store.driver: unknown driver %q (want sqlite, postgres or qdrant)", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
