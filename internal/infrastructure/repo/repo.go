package repo

import (
	"context"
	"fmt"

	"pizza-shop/internal/domain"
)

// Store is the order persistence contract shared by every backend.
type Store interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open picks a backend by driver name: sqlite, postgres or memory.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemoryOrderRepo(), nil
	case DialectSQLite, DialectPostgres:
		return NewSQLRepo(ctx, driver, dsn)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}
