package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendNull  = "null"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a cache backend. It maps to the [cache]
// table of the config file.
type Config struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`

	// Namespace prefixes every key, for backends shared between machines.
	Namespace string `toml:"namespace"`
}

// Keyer returns the key builder for cfg.
func (cfg Config) Keyer() Keyer {
	if cfg.Namespace == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(nil, cfg.Namespace)
}

// Open creates the backend named by cfg.Backend. An empty backend opens a
// file cache in cfg.Dir.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("%w: file cache dir required", ErrConfig)
		}
		return NewFileCache(cfg.Dir)
	case BackendNull:
		return NewNullCache(), nil
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis)
	case BackendMongo:
		return NewMongoCache(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrConfig, cfg.Backend)
	}
}
