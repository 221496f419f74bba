package options

import (
	"context"

	"github.com/eprocure/lookups/internal/entities"
)

// Store is the persistence contract for a single option kind.
//
// Find methods include soft-deleted rows unless their name says otherwise;
// the active/deleted policy lives in Service.
type Store interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)

	// FindByID returns nil, nil when no row has the id.
	FindByID(ctx context.Context, id string) (*entities.Option, error)

	// FindAllByID silently omits ids that do not exist.
	FindAllByID(ctx context.Context, ids []string) ([]entities.Option, error)
	FindAll(ctx context.Context) ([]entities.Option, error)
	FindByDeletedAtIsNull(ctx context.Context) ([]entities.Option, error)

	// Save inserts the option or overwrites the row with the same id.
	Save(ctx context.Context, option *entities.Option) (*entities.Option, error)
	SaveAll(ctx context.Context, options []entities.Option) ([]entities.Option, error)

	DeleteByID(ctx context.Context, id string) error
	DeleteAllByID(ctx context.Context, ids []string) error
	DeleteAll(ctx context.Context) error

	// Transaction runs fn against a Store bound to a single transaction.
	// The transaction is rolled back when fn returns an error.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
