package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/eprocure/lookups/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated audit events, most recent first.
// An empty kind returns events for every kind.
func (r *Repository) GetEvents(kind string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return r.query(r.db.Model(&entities.AuditEvent{}), kind, limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (r *Repository) GetEventsByType(eventType entities.AuditEventType, kind string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return r.query(r.db.Model(&entities.AuditEvent{}).Where("event_type = ?", eventType), kind, limit, offset)
}

// GetEventsForEntity returns the history of a single option, oldest first,
// including batch events that touched it.
func (r *Repository) GetEventsForEntity(kind, entityID string) ([]entities.AuditEvent, error) {
	linked := r.db.Model(&entities.AuditEventEntity{}).
		Select("audit_event_id").
		Where("entity_id = ?", entityID)

	events := []entities.AuditEvent{}
	err := r.db.Where("kind = ?", kind).
		Where("(entity_id = ? OR id IN (?))", entityID, linked).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

func (r *Repository) query(query *gorm.DB, kind string, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes audit events older than the specified time together
// with their entity links. Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		old := tx.Model(&entities.AuditEvent{}).Select("id").Where("created_at < ?", olderThan)
		if err := tx.Where("audit_event_id IN (?)", old).Delete(&entities.AuditEventEntity{}).Error; err != nil {
			return err
		}
		result := tx.Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}
