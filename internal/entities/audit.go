package entities

import "time"

type AuditEventType string

const (
	AuditEventCreate     AuditEventType = "create"
	AuditEventUpdate     AuditEventType = "update"
	AuditEventSoftDelete AuditEventType = "soft_delete"
	AuditEventHardDelete AuditEventType = "hard_delete"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"eventType"`
	Action      string         `gorm:"size:100" json:"action"`      // e.g. "create_one", "soft_delete_many"
	Kind        string         `gorm:"index;size:100" json:"kind"`  // option kind name, e.g. "country_option"
	Description string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityID    string         `gorm:"index;size:64" json:"entityId,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	IPAddress   string         `gorm:"size:45" json:"ipAddress,omitempty"`
	UserAgent   string         `gorm:"size:500" json:"userAgent,omitempty"`
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"errorMsg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`

	// Entities lists every option the event touched, one row per id, so an
	// option's history also finds batch actions.
	Entities []AuditEventEntity `gorm:"foreignKey:AuditEventID" json:"-"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

// AuditEventEntity links an audit event to one option id.
type AuditEventEntity struct {
	ID           uint   `gorm:"primaryKey"`
	AuditEventID uint   `gorm:"index;not null"`
	EntityID     string `gorm:"index;size:64;not null"`
}

func (AuditEventEntity) TableName() string {
	return "audit_event_entities"
}
