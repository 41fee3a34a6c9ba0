package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kalambet/lettervec/internal/chunk"
	"github.com/kalambet/lettervec/internal/config"
	"github.com/kalambet/lettervec/internal/embedding"
	"github.com/kalambet/lettervec/internal/engine"
	"github.com/kalambet/lettervec/internal/ingest"
	"github.com/kalambet/lettervec/internal/storage"
)

// app is the wired pipeline shared by the import, serve and mcp commands.
type app struct {
	cfg      config.Config
	store    storage.RecordStore
	importer *ingest.Importer
}

func (a *app) Close() error {
	return a.store.Close()
}

var loadConfig = func() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

var newEngine = func(cfg config.Config) (engine.Engine, error) {
	return engine.Detect(engine.DetectConfig{
		Provider: cfg.Embedding.Provider,
		BaseURL:  cfg.Embedding.BaseURL,
		APIKey:   cfg.Embedding.APIKey,
	})
}

var openStore = func(ctx context.Context, cfg config.Config) (storage.RecordStore, error) {
	return storage.Open(ctx, storage.OpenConfig{
		Driver:     cfg.Store.Driver,
		DataDir:    cfg.Store.DataDir,
		URL:        cfg.Store.URL,
		ServiceKey: cfg.Store.ServiceKey,
		Collection: cfg.Store.Collection,
		Dimensions: cfg.Embedding.Dimensions,
	})
}

// openApp builds the engine, store and importer. Configuration and
// connectivity problems surface here, before any document is read.
// Importer progress goes to out.
func openApp(ctx context.Context, cfg config.Config, out io.Writer) (*app, error) {
	splitter, err := chunk.New(cfg.ChunkSettings())
	if err != nil {
		return nil, fmt.Errorf("chunk settings: %w", err)
	}

	eng, err := newEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding engine: %w", err)
	}
	if err := engine.EnsureReady(ctx, eng, cfg.Embedding.Model, os.Stderr); err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}

	embedder := embedding.NewEmbedder(eng, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	return &app{
		cfg:      cfg,
		store:    store,
		importer: ingest.NewImporter(splitter, embedder, store, out),
	}, nil
}
