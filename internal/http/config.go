package http

import (
	"github.com/eprocure/lookups/internal/audit"
	"github.com/eprocure/lookups/internal/entities"
)

// RouterConfig contains all dependencies needed to build the HTTP router.
type RouterConfig struct {
	// One service per mounted kind
	Services []OptionService

	// Kinds served, for /api/kinds
	Kinds []entities.Kind

	// Health check target
	Database Pinger

	// Audit trail (optional)
	AuditService *audit.Service

	// Task queue (optional)
	TaskClient     TaskStatusReader
	CleanupTrigger CleanupTrigger

	// Application info
	Version string
}
