package core

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"creaturecore/internal/infra/persistence/badgerdb"
	"creaturecore/internal/infra/persistence/memory"
	"creaturecore/internal/infra/persistence/postgres"
	"creaturecore/internal/infra/persistence/sqlite"
	"creaturecore/pkg/registry"
)

// Storage driver identifiers accepted by OpenPersistentStore.
const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverBadger   = "badger"
)

// StorageConfig selects and parameterizes the persistence backend. Fields
// map to CREATURECORE_* environment variables.
type StorageConfig struct {
	Driver      string `env:"CREATURECORE_STORAGE_DRIVER" envDefault:"memory"`
	SQLitePath  string `env:"CREATURECORE_SQLITE_PATH"`
	PostgresDSN string `env:"CREATURECORE_POSTGRES_DSN"`
	BadgerPath  string `env:"CREATURECORE_BADGER_PATH"`
	BadgerSync  bool   `env:"CREATURECORE_BADGER_SYNC" envDefault:"true"`
}

// LoadStorageConfig reads the storage configuration from the environment.
func LoadStorageConfig() (StorageConfig, error) {
	cfg, err := env.ParseAs[StorageConfig]()
	if err != nil {
		return StorageConfig{}, fmt.Errorf("parse storage config: %w", err)
	}
	return cfg, nil
}

// OpenPersistentStore constructs the persistence backend named by cfg. A nil
// engine gets the default rules engine.
func OpenPersistentStore(cfg StorageConfig, engine *registry.RulesEngine) (PersistentStore, error) {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", StorageDriverMemory:
		return memory.NewStore(engine), nil
	case StorageDriverSQLite:
		return sqlite.NewStore(cfg.SQLitePath, engine)
	case StorageDriverPostgres:
		return postgres.NewStore(cfg.PostgresDSN, engine)
	case StorageDriverBadger:
		return badgerdb.NewStore(badgerdb.Config{
			Path:       cfg.BadgerPath,
			SyncWrites: cfg.BadgerSync,
		}, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// OpenPersistentStoreFromEnv opens the backend selected by the
// CREATURECORE_* environment variables.
func OpenPersistentStoreFromEnv(engine *registry.RulesEngine) (PersistentStore, error) {
	cfg, err := LoadStorageConfig()
	if err != nil {
		return nil, err
	}
	return OpenPersistentStore(cfg, engine)
}
