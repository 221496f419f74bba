// Package options implements the lookup-option lifecycle shared by every option kind.
//
// An option is Active while its deletedAt is unset, SoftDeleted once it is set, and
// Purged when the row is removed. Non-"hard" operations treat SoftDeleted rows as
// missing; "hard" operations see every row. There is no restore.
//
// # Usage
//
//	kind, _ := entities.LookupKind("country_option")
//	svc := options.NewService(kind, optionsRepo)
//	saved, err := svc.Save(ctx, &entities.Option{ID: id, Name: "Rwanda"})
//	if errors.Is(err, options.ErrAlreadyExists) { ... }
package options

import (
	"context"
	"fmt"
	"time"

	"github.com/eprocure/lookups/internal/entities"
)

// Service enforces the lookup-option rules for one kind on top of a Store.
type Service struct {
	kind  entities.Kind
	store Store
	now   func() time.Time
}

// NewService creates a service for kind backed by store.
func NewService(kind entities.Kind, store Store) *Service {
	return &Service{
		kind:  kind,
		store: store,
		now:   time.Now,
	}
}

// SetClock replaces the time source used for soft-delete timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Kind returns the option kind this service manages.
func (s *Service) Kind() entities.Kind {
	return s.kind
}

// Save persists a new option. Neither its id nor its name may be used by any
// row of the kind, soft-deleted rows included.
func (s *Service) Save(ctx context.Context, option *entities.Option) (*entities.Option, error) {
	if option == nil {
		return nil, s.errorf("save", "option: %w", ErrNullArgument)
	}

	var saved *entities.Option
	err := s.store.Transaction(ctx, func(tx Store) error {
		if err := s.checkIDFree(ctx, tx, option.ID); err != nil {
			return err
		}
		if err := s.checkNameFree(ctx, tx, option.Name); err != nil {
			return err
		}
		var err error
		saved, err = tx.Save(ctx, option)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// SaveMany persists a batch of new options. A single id or name collision,
// against the store or inside the batch, rejects the whole batch.
func (s *Service) SaveMany(ctx context.Context, options []entities.Option) ([]entities.Option, error) {
	if options == nil {
		return nil, s.errorf("save many", "options: %w", ErrNullArgument)
	}
	if len(options) == 0 {
		return nil, s.errorf("save many", "options list is empty: %w", ErrInvalidArgument)
	}

	batchNames := make(map[string]bool, len(options))
	batchIDs := make(map[string]bool, len(options))
	for _, o := range options {
		if batchNames[o.Name] {
			return nil, s.errorf("save many", "name %q repeated in batch: %w", o.Name, ErrAlreadyExists)
		}
		batchNames[o.Name] = true
		if o.ID == "" {
			continue
		}
		if batchIDs[o.ID] {
			return nil, s.errorf("save many", "id %s repeated in batch: %w", o.ID, ErrAlreadyExists)
		}
		batchIDs[o.ID] = true
	}

	var saved []entities.Option
	err := s.store.Transaction(ctx, func(tx Store) error {
		for _, o := range options {
			if err := s.checkIDFree(ctx, tx, o.ID); err != nil {
				return err
			}
			if err := s.checkNameFree(ctx, tx, o.Name); err != nil {
				return err
			}
		}
		var err error
		saved, err = tx.SaveAll(ctx, options)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ReadOne returns the active option with the given id.
func (s *Service) ReadOne(ctx context.Context, id string) (*entities.Option, error) {
	if id == "" {
		return nil, s.errorf("read one", "id: %w", ErrNullArgument)
	}

	option, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.errorf("read one", "find %s: %w", id, err)
	}
	if option == nil || option.IsDeleted() {
		return nil, s.notFound(id)
	}
	return option, nil
}

// ReadMany returns the active options among ids. Missing and soft-deleted ids are
// skipped; an empty id anywhere in the list fails the whole call.
func (s *Service) ReadMany(ctx context.Context, ids []string) ([]entities.Option, error) {
	if len(ids) == 0 {
		return nil, s.errorf("read many", "id list: %w", ErrNullArgument)
	}
	for i, id := range ids {
		if id == "" {
			return nil, s.errorf("read many", "id at position %d: %w", i, ErrNullArgument)
		}
	}

	found, err := s.store.FindAllByID(ctx, ids)
	if err != nil {
		return nil, s.errorf("read many", "find: %w", err)
	}
	return activeOnly(found), nil
}

// ReadAll returns every active option.
func (s *Service) ReadAll(ctx context.Context) ([]entities.Option, error) {
	options, err := s.store.FindByDeletedAtIsNull(ctx)
	if err != nil {
		return nil, s.errorf("read all", "%w", err)
	}
	return options, nil
}

// HardReadAll returns every option, soft-deleted ones included.
func (s *Service) HardReadAll(ctx context.Context) ([]entities.Option, error) {
	options, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, s.errorf("hard read all", "%w", err)
	}
	return options, nil
}

// UpdateOne writes the caller's name and description onto the stored active row.
// Identity, creation time and deletion state always come from the stored row.
func (s *Service) UpdateOne(ctx context.Context, option *entities.Option) (*entities.Option, error) {
	if option == nil {
		return nil, s.errorf("update one", "option: %w", ErrNullArgument)
	}
	if option.ID == "" {
		return nil, s.errorf("update one", "id: %w", ErrNullArgument)
	}

	var saved *entities.Option
	err := s.store.Transaction(ctx, func(tx Store) error {
		merged, err := s.mergeOntoActive(ctx, tx, *option)
		if err != nil {
			return err
		}
		saved, err = tx.Save(ctx, &merged)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// UpdateMany applies UpdateOne to every element. The first missing or soft-deleted
// element aborts the call and nothing is written.
func (s *Service) UpdateMany(ctx context.Context, options []entities.Option) ([]entities.Option, error) {
	if options == nil {
		return nil, s.errorf("update many", "options: %w", ErrNullArgument)
	}
	if len(options) == 0 {
		return nil, s.errorf("update many", "options list is empty: %w", ErrInvalidArgument)
	}

	var saved []entities.Option
	err := s.store.Transaction(ctx, func(tx Store) error {
		merged := make([]entities.Option, 0, len(options))
		for i, o := range options {
			if o.ID == "" {
				return s.errorf("update many", "id at position %d: %w", i, ErrNullArgument)
			}
			m, err := s.mergeOntoActive(ctx, tx, o)
			if err != nil {
				return err
			}
			merged = append(merged, m)
		}
		var err error
		saved, err = tx.SaveAll(ctx, merged)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// HardUpdate saves the option as given, inserting it when the id is new.
// A zero creation time keeps the stored one.
func (s *Service) HardUpdate(ctx context.Context, option *entities.Option) (*entities.Option, error) {
	if option == nil {
		return nil, s.errorf("hard update", "option: %w", ErrNullArgument)
	}
	if option.ID == "" {
		return nil, s.errorf("hard update", "id: %w", ErrNullArgument)
	}

	var saved *entities.Option
	err := s.store.Transaction(ctx, func(tx Store) error {
		toSave := *option
		if toSave.CreatedAt.IsZero() {
			stored, err := tx.FindByID(ctx, toSave.ID)
			if err != nil {
				return s.errorf("hard update", "find %s: %w", toSave.ID, err)
			}
			if stored != nil {
				toSave.CreatedAt = stored.CreatedAt
			}
		}
		var err error
		saved, err = tx.Save(ctx, &toSave)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// HardUpdateAll saves every option as given with the same upsert rules as HardUpdate.
func (s *Service) HardUpdateAll(ctx context.Context, options []entities.Option) ([]entities.Option, error) {
	if options == nil {
		return nil, s.errorf("hard update all", "options: %w", ErrNullArgument)
	}
	if len(options) == 0 {
		return []entities.Option{}, nil
	}

	ids := make([]string, 0, len(options))
	for i, o := range options {
		if o.ID == "" {
			return nil, s.errorf("hard update all", "id at position %d: %w", i, ErrNullArgument)
		}
		ids = append(ids, o.ID)
	}

	var saved []entities.Option
	err := s.store.Transaction(ctx, func(tx Store) error {
		stored, err := tx.FindAllByID(ctx, ids)
		if err != nil {
			return s.errorf("hard update all", "find: %w", err)
		}
		createdAt := make(map[string]time.Time, len(stored))
		for _, o := range stored {
			createdAt[o.ID] = o.CreatedAt
		}

		toSave := make([]entities.Option, len(options))
		copy(toSave, options)
		for i := range toSave {
			if t, ok := createdAt[toSave[i].ID]; ok && toSave[i].CreatedAt.IsZero() {
				toSave[i].CreatedAt = t
			}
		}
		saved, err = tx.SaveAll(ctx, toSave)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// SoftDelete stamps deletedAt on the row with the given id. Deleting an already
// soft-deleted row succeeds and moves the timestamp.
func (s *Service) SoftDelete(ctx context.Context, id string) (*entities.Option, error) {
	if id == "" {
		return nil, s.errorf("soft delete", "id: %w", ErrNullArgument)
	}

	var saved *entities.Option
	err := s.store.Transaction(ctx, func(tx Store) error {
		stored, err := tx.FindByID(ctx, id)
		if err != nil {
			return s.errorf("soft delete", "find %s: %w", id, err)
		}
		if stored == nil {
			return s.notFound(id)
		}
		stored.MarkDeleted(s.now())
		saved, err = tx.Save(ctx, stored)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// HardDelete removes the row with the given id.
func (s *Service) HardDelete(ctx context.Context, id string) error {
	if id == "" {
		return s.errorf("hard delete", "id: %w", ErrNullArgument)
	}

	return s.store.Transaction(ctx, func(tx Store) error {
		exists, err := tx.ExistsByID(ctx, id)
		if err != nil {
			return s.errorf("hard delete", "check %s: %w", id, err)
		}
		if !exists {
			return s.notFound(id)
		}
		return tx.DeleteByID(ctx, id)
	})
}

// SoftDeleteMany stamps deletedAt on every row that ids resolve to and returns
// those rows. Unresolved ids are skipped; if none resolve the call fails.
func (s *Service) SoftDeleteMany(ctx context.Context, ids []string) ([]entities.Option, error) {
	var saved []entities.Option
	err := s.store.Transaction(ctx, func(tx Store) error {
		found, err := tx.FindAllByID(ctx, ids)
		if err != nil {
			return s.errorf("soft delete many", "find: %w", err)
		}
		if len(found) == 0 {
			return s.errorf("soft delete many", "none of %d ids resolved: %w", len(ids), ErrNotFound)
		}
		at := s.now()
		for i := range found {
			found[i].MarkDeleted(at)
		}
		saved, err = tx.SaveAll(ctx, found)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// HardDeleteMany removes every row matching ids and returns the ids that were
// actually removed. Unknown ids are ignored.
func (s *Service) HardDeleteMany(ctx context.Context, ids []string) ([]string, error) {
	removed := []string{}
	if len(ids) == 0 {
		return removed, nil
	}
	err := s.store.Transaction(ctx, func(tx Store) error {
		found, err := tx.FindAllByID(ctx, ids)
		if err != nil {
			return s.errorf("hard delete many", "find: %w", err)
		}
		for _, o := range found {
			removed = append(removed, o.ID)
		}
		if len(removed) == 0 {
			return nil
		}
		return tx.DeleteAllByID(ctx, removed)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// HardDeleteAll removes every row of the kind.
func (s *Service) HardDeleteAll(ctx context.Context) error {
	return s.store.Transaction(ctx, func(tx Store) error {
		return tx.DeleteAll(ctx)
	})
}

// checkIDFree keeps a create from overwriting an existing row through the
// store's upsert. An empty id is left for the store to fill.
func (s *Service) checkIDFree(ctx context.Context, tx Store, id string) error {
	if id == "" {
		return nil
	}
	exists, err := tx.ExistsByID(ctx, id)
	if err != nil {
		return s.errorf("save", "check id %s: %w", id, err)
	}
	if exists {
		return fmt.Errorf("%s with id %s: %w", s.kind.DisplayName, id, ErrAlreadyExists)
	}
	return nil
}

func (s *Service) checkNameFree(ctx context.Context, tx Store, name string) error {
	exists, err := tx.ExistsByName(ctx, name)
	if err != nil {
		return s.errorf("save", "check name %q: %w", name, err)
	}
	if exists {
		return fmt.Errorf("%s with name %q: %w", s.kind.DisplayName, name, ErrAlreadyExists)
	}
	return nil
}

func (s *Service) mergeOntoActive(ctx context.Context, tx Store, update entities.Option) (entities.Option, error) {
	stored, err := tx.FindByID(ctx, update.ID)
	if err != nil {
		return entities.Option{}, s.errorf("update", "find %s: %w", update.ID, err)
	}
	if stored == nil || stored.IsDeleted() {
		return entities.Option{}, s.notFound(update.ID)
	}
	merged := *stored
	merged.Name = update.Name
	merged.Description = update.Description
	return merged, nil
}

func (s *Service) notFound(id string) error {
	return fmt.Errorf("%s with id %s: %w", s.kind.DisplayName, id, ErrNotFound)
}

func (s *Service) errorf(op, format string, args ...any) error {
	return fmt.Errorf("%s %s: "+format, append([]any{s.kind.Name, op}, args...)...)
}

func activeOnly(options []entities.Option) []entities.Option {
	active := make([]entities.Option, 0, len(options))
	for _, o := range options {
		if !o.IsDeleted() {
			active = append(active, o)
		}
	}
	return active
}
