package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/coltype/internal/config"
)

// Open returns the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemoryStore(cfg.MemoryLimit), nil
	case "postgres":
		return OpenPostgres(ctx, cfg.URL, PoolOptions{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	case "sqlite":
		return OpenSQLite(cfg.URL)
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}
