package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "embedding.provider", typ: kString, env: "LETTERVEC_EMBEDDING_PROVIDER",
		apply:   func(cfg *Config, v any) { cfg.Embedding.Provider = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.Provider },
	},
	{
		key: "embedding.base_url", typ: kString, env: "LETTERVEC_EMBEDDING_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Embedding.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.BaseURL },
	},
	{
		key: "embedding.model", typ: kString, env: "LETTERVEC_EMBEDDING_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Embedding.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.Model },
	},
	{
		key: "embedding.dimensions", typ: kInt, env: "LETTERVEC_EMBEDDING_DIMENSIONS",
		apply:   func(cfg *Config, v any) { cfg.Embedding.Dimensions = v.(int) },
		extract: func(cfg Config) any { return cfg.Embedding.Dimensions },
	},
	{
		key: "embedding.api_key", typ: kString, env: "LETTERVEC_OPENAI_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Embedding.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Embedding.APIKey },
	},
	{
		key: "store.driver", typ: kString, env: "LETTERVEC_STORE_DRIVER",
		apply:   func(cfg *Config, v any) { cfg.Store.Driver = v.(string) },
		extract: func(cfg Config) any { return cfg.Store.Driver },
	},
	{
		key: "store.data_dir", typ: kString, env: "LETTERVEC_STORE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Store.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Store.DataDir },
	},
	{
		key: "store.url", typ: kString, env: "LETTERVEC_STORE_URL",
		apply:   func(cfg *Config, v any) { cfg.Store.URL = v.(string) },
		extract: func(cfg Config) any { return cfg.Store.URL },
	},
	{
		key: "store.service_key", typ: kString, env: "LETTERVEC_STORE_SERVICE_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Store.ServiceKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Store.ServiceKey },
	},
	{
		key: "store.collection", typ: kString, env: "LETTERVEC_STORE_COLLECTION",
		apply:   func(cfg *Config, v any) { cfg.Store.Collection = v.(string) },
		extract: func(cfg Config) any { return cfg.Store.Collection },
	},
	{
		key: "chunk.mode", typ: kString, env: "LETTERVEC_CHUNK_MODE",
		apply:   func(cfg *Config, v any) { cfg.Chunk.Mode = v.(string) },
		extract: func(cfg Config) any { return cfg.Chunk.Mode },
	},
	{
		key: "chunk.size", typ: kInt, env: "LETTERVEC_CHUNK_SIZE",
		apply:   func(cfg *Config, v any) { cfg.Chunk.Size = v.(int) },
		extract: func(cfg Config) any { return cfg.Chunk.Size },
	},
	{
		key: "chunk.overlap", typ: kInt, env: "LETTERVEC_CHUNK_OVERLAP",
		apply:   func(cfg *Config, v any) { cfg.Chunk.Overlap = v.(int) },
		extract: func(cfg Config) any { return cfg.Chunk.Overlap },
	},
	{
		key: "import.letters_dir", typ: kString, env: "LETTERVEC_IMPORT_LETTERS_DIR",
		apply:   func(cfg *Config, v any) { cfg.Import.LettersDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Import.LettersDir },
	},
	{
		key: "import.catalog_path", typ: kString, env: "LETTERVEC_IMPORT_CATALOG_PATH",
		apply:   func(cfg *Config, v any) { cfg.Import.CatalogPath = v.(string) },
		extract: func(cfg Config) any { return cfg.Import.CatalogPath },
	},
	{
		key: "server.port", typ: kInt, env: "LETTERVEC_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.token", typ: kString, env: "LETTERVEC_SERVER_TOKEN",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Server.Token = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Token },
	},
	{
		key: "log.level", typ: kString, env: "LETTERVEC_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}

// secretFallbacks are conventional variable names read, in order, when the
// prefixed variable for a secret is unset. SUPABASE_SERVICE_KEY lets .env
// files written for the hosted documents table keep working.
var secretFallbacks = []struct {
	envs []string
	get  func(*Config) *string
}{
	{[]string{"OPENAI_API_KEY"}, func(c *Config) *string { return &c.Embedding.APIKey }},
	{[]string{"QDRANT_API_KEY", "SUPABASE_SERVICE_KEY"}, func(c *Config) *string { return &c.Store.ServiceKey }},
}

func applySecretFallbacks(cfg *Config) {
	for _, fb := range secretFallbacks {
		dst := fb.get(cfg)
		for _, env := range fb.envs {
			if *dst != "" {
				break
			}
			*dst = os.Getenv(env)
		}
	}
}
