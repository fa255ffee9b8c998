package config

import (
	"fmt"
	"log"

	"procflow/internal/adapters/persistence/store"
)

// OpenStore opens the durable key-value store selected by configuration
func OpenStore(cfg *Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		st, err := store.NewSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Printf("✅ SQLite store opened at %s", cfg.Store.SQLitePath)
		return st, nil
	default:
		st, err := store.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		log.Printf("✅ File store opened at %s", cfg.Store.DataDir)
		return st, nil
	}
}
