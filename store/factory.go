package store

import (
	"fmt"

	"github.com/abya-university/ABYA-Ecosystem-sub001/db"
)

// StoreType represents the backend a treasury store runs on
type StoreType string

const (
	// MemoryStoreType keeps everything in process, for tests and throwaway nodes
	MemoryStoreType StoreType = "memory"

	LevelDBStoreType StoreType = "leveldb"

	BoltStoreType StoreType = "bolt"

	// RocksDBStoreType requires building with the rocksdb tag
	RocksDBStoreType StoreType = "rocksdb"

	RedisStoreType StoreType = "redis"

	PostgresStoreType StoreType = "postgres"
)

const defaultPostgresTable = "treasury_kv"

// StoreConfig holds configuration for creating store instances
type StoreConfig struct {
	Type StoreType `json:"type" yaml:"type"`

	// Directory is the database directory path (for file-based databases)
	Directory string `json:"directory" yaml:"directory"`

	// Address is the server address for redis or a postgres connection URL
	Address string `json:"address" yaml:"address"`

	// RedisDB selects the logical redis database
	RedisDB int `json:"redis_db" yaml:"redis_db"`

	// Namespace prefixes redis keys or names the postgres table
	Namespace string `json:"namespace" yaml:"namespace"`
}

// Validate validates the store configuration
func (sc *StoreConfig) Validate() error {
	switch sc.Type {
	case "":
		return fmt.Errorf("store type cannot be empty")
	case MemoryStoreType:
		return nil
	case LevelDBStoreType, BoltStoreType, RocksDBStoreType:
		if sc.Directory == "" {
			return fmt.Errorf("directory cannot be empty for %s store", sc.Type)
		}
		return nil
	case RedisStoreType, PostgresStoreType:
		if sc.Address == "" {
			return fmt.Errorf("address cannot be empty for %s store", sc.Type)
		}
		return nil
	default:
		return fmt.Errorf("unsupported store type: %s", sc.Type)
	}
}

// NewProvider creates a database provider based on the configuration
func NewProvider(config *StoreConfig) (db.DatabaseProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch config.Type {
	case MemoryStoreType:
		return db.NewMemoryProvider(), nil

	case LevelDBStoreType:
		return db.NewLevelDBProvider(config.Directory)

	case BoltStoreType:
		return db.NewBoltProvider(config.Directory)

	case RocksDBStoreType:
		return db.NewRocksDBProvider(config.Directory)

	case RedisStoreType:
		return db.NewRedisProvider(config.Address, config.RedisDB, config.Namespace)

	case PostgresStoreType:
		table := config.Namespace
		if table == "" {
			table = defaultPostgresTable
		}
		return db.NewPostgresProvider(config.Address, table)

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// CreateStore opens the configured backend and wraps it in a treasury store
func CreateStore(config *StoreConfig) (*GenericTreasuryStore, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	st, err := NewGenericTreasuryStore(provider)
	if err != nil {
		_ = provider.Close()
		return nil, fmt.Errorf("failed to create treasury store: %w", err)
	}
	return st, nil
}
