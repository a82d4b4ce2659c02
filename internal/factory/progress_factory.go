package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/adapters/progress"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/config"
	"github.com/GauravTiwaritp/ReachinBoxAssignment/internal/core"
)

// ProgressFactory creates progress stores based on configuration
type ProgressFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	rdb    *redis.Client
}

// NewProgressFactory creates a new progress store factory. The redis
// client is the shared connection also used by the reply queue.
func NewProgressFactory(cfg *config.Config, logger *zap.Logger, rdb *redis.Client) *ProgressFactory {
	return &ProgressFactory{
		cfg:    cfg,
		logger: logger,
		rdb:    rdb,
	}
}

// CreateProgressStore creates a progress store based on the configuration
func (f *ProgressFactory) CreateProgressStore() (core.ProgressStore, error) {
	storeType := f.cfg.GetString("progress.store")

	switch storeType {
	case "memory":
		return progress.NewMemoryStore(), nil
	case "redis":
		return progress.NewRedisStore(f.rdb, f.cfg.GetString("progress.redis_key")), nil
	case "sqlite":
		sqlitePath := f.cfg.GetString("progress.sqlite_path")
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return progress.NewSQLiteStore(sqlitePath, f.logger)
	case "mysql":
		return progress.NewMySQLStore(f.cfg.GetString("progress.mysql_dsn"), f.logger)
	default:
		return nil, fmt.Errorf("unsupported progress store: %s", storeType)
	}
}
