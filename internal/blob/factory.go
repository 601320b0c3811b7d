package blob

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// FactoryConfig selects the blob driver from the environment.
type FactoryConfig struct {
	Driver string `env:"CREATURECORE_BLOB_DRIVER" envDefault:"fs"`
	FSRoot string `env:"CREATURECORE_BLOB_FS_ROOT"`
}

// Open selects a Store implementation using CREATURECORE_BLOB_* variables.
func Open(ctx context.Context) (Store, error) {
	cfg, err := env.ParseAs[FactoryConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse blob config: %w", err)
	}
	switch Driver(cfg.Driver) {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return OpenS3FromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
