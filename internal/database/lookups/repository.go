// Package lookups provides the gorm-backed store for lookup options.
//
// One Repository serves one option kind and only ever touches that kind's table.
//
// # Interface Implementation
//
//	var _ options.Store = (*Repository)(nil)
//
// # Usage
//
//	kind, _ := entities.LookupKind("country_option")
//	repo := lookups.NewRepository(db.DB, kind)
//	svc := options.NewService(kind, repo)
package lookups

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/eprocure/lookups/internal/entities"
	"github.com/eprocure/lookups/internal/options"
)

var _ options.Store = (*Repository)(nil)

// Repository handles all database operations for a single option kind.
type Repository struct {
	db   *gorm.DB
	kind entities.Kind
}

// NewRepository creates a repository bound to kind's table.
func NewRepository(db *gorm.DB, kind entities.Kind) *Repository {
	return &Repository{db: db, kind: kind}
}

// Kind returns the option kind this repository serves.
func (r *Repository) Kind() entities.Kind {
	return r.kind
}

// table scopes a query to this kind's table. Soft-deleted rows are filtered
// by gorm unless the caller adds Unscoped.
func (r *Repository) table(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.kind.Table).Model(&entities.Option{})
}

// ExistsByName checks every row, soft-deleted ones included.
func (r *Repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.table(ctx).Unscoped().Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count %s by name: %w", r.kind.Table, err)
	}
	return count > 0, nil
}

// ExistsByID checks every row, soft-deleted ones included.
func (r *Repository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.table(ctx).Unscoped().Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count %s by id: %w", r.kind.Table, err)
	}
	return count > 0, nil
}

// FindByID returns nil, nil when the id is unknown.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Option, error) {
	var found []entities.Option
	err := r.table(ctx).Unscoped().Where("id = ?", id).Limit(1).Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("find %s by id: %w", r.kind.Table, err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// FindAllByID returns the rows matching ids in creation order.
func (r *Repository) FindAllByID(ctx context.Context, ids []string) ([]entities.Option, error) {
	found := []entities.Option{}
	if len(ids) == 0 {
		return found, nil
	}
	err := r.table(ctx).Unscoped().Where("id IN ?", ids).Order("created_at ASC, id ASC").Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("find %s by ids: %w", r.kind.Table, err)
	}
	return found, nil
}

// FindAll returns every row, soft-deleted ones included.
func (r *Repository) FindAll(ctx context.Context) ([]entities.Option, error) {
	found := []entities.Option{}
	err := r.table(ctx).Unscoped().Order("created_at ASC, id ASC").Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", r.kind.Table, err)
	}
	return found, nil
}

// FindByDeletedAtIsNull returns active rows only.
func (r *Repository) FindByDeletedAtIsNull(ctx context.Context) ([]entities.Option, error) {
	found := []entities.Option{}
	err := r.table(ctx).Order("created_at ASC, id ASC").Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("find active %s: %w", r.kind.Table, err)
	}
	return found, nil
}

// Save inserts the option, or overwrites every column of the row with the same id.
func (r *Repository) Save(ctx context.Context, option *entities.Option) (*entities.Option, error) {
	if err := r.db.WithContext(ctx).Table(r.kind.Table).Unscoped().Save(option).Error; err != nil {
		return nil, fmt.Errorf("save %s %s: %w", r.kind.Table, option.ID, err)
	}
	return option, nil
}

// SaveAll upserts options in one statement. Creation times of existing rows are kept.
func (r *Repository) SaveAll(ctx context.Context, opts []entities.Option) ([]entities.Option, error) {
	if len(opts) == 0 {
		return []entities.Option{}, nil
	}
	saved := make([]entities.Option, len(opts))
	copy(saved, opts)
	if err := r.db.WithContext(ctx).Table(r.kind.Table).Unscoped().Save(&saved).Error; err != nil {
		return nil, fmt.Errorf("save %d %s: %w", len(opts), r.kind.Table, err)
	}
	return saved, nil
}

// DeleteByID physically removes the row.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	err := r.table(ctx).Unscoped().Where("id = ?", id).Delete(&entities.Option{}).Error
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", r.kind.Table, id, err)
	}
	return nil
}

// DeleteAllByID physically removes the rows matching ids.
func (r *Repository) DeleteAllByID(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.table(ctx).Unscoped().Where("id IN ?", ids).Delete(&entities.Option{}).Error
	if err != nil {
		return fmt.Errorf("delete %d %s: %w", len(ids), r.kind.Table, err)
	}
	return nil
}

// DeleteAll physically removes every row of the kind.
func (r *Repository) DeleteAll(ctx context.Context) error {
	err := r.table(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&entities.Option{}).Error
	if err != nil {
		return fmt.Errorf("delete all %s: %w", r.kind.Table, err)
	}
	return nil
}

// Transaction runs fn with a repository bound to a single database transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx options.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, kind: r.kind})
	})
}
