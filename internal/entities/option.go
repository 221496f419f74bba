package entities

import (
	"time"

	"gorm.io/gorm"
)

// Option is a single lookup row. Every Kind shares this shape and lives in its own table.
type Option struct {
	ID          string         `gorm:"primaryKey;size:64" json:"id"`
	Name        string         `gorm:"index;size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

// IsDeleted reports whether the row has been soft-deleted.
func (o *Option) IsDeleted() bool {
	return o.DeletedAt.Valid
}

// MarkDeleted sets the soft-delete timestamp, overwriting any previous one.
func (o *Option) MarkDeleted(at time.Time) {
	o.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
}
