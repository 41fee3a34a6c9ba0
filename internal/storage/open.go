package storage

import (
	"context"
	"fmt"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverQdrant   = "qdrant"
)

// OpenConfig selects and parameterizes a RecordStore backend.
type OpenConfig struct {
	Driver     string
	DataDir    string // sqlite
	URL        string // postgres DSN or qdrant gRPC address
	ServiceKey string // qdrant api-key
	Collection string // qdrant collection
	Dimensions int
}

// Open returns the RecordStore for cfg.Driver. An empty driver selects sqlite.
func Open(ctx context.Context, cfg OpenConfig) (RecordStore, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		return OpenSQLite(cfg.DataDir)
	case DriverPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("postgres: store.url is required")
		}
		return OpenPostgres(ctx, cfg.URL, cfg.Dimensions)
	case DriverQdrant:
		if cfg.URL == "" {
			return nil, fmt.Errorf("qdrant: store.url is required")
		}
		return OpenQdrant(ctx, cfg.URL, cfg.ServiceKey, cfg.Collection, cfg.Dimensions)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, cfg.Driver)
	}
}
