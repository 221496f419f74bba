package interfaces

// Compile-time checks that concrete types satisfy the interfaces their
// consumers declare. A missing method breaks the build here rather than at
// the wiring site in entrypoint.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/eprocure/lookups/internal/audit"
	"github.com/eprocure/lookups/internal/database"
	"github.com/eprocure/lookups/internal/database/lookups"
	"github.com/eprocure/lookups/internal/http"
	"github.com/eprocure/lookups/internal/options"
	"github.com/eprocure/lookups/internal/scheduler"
	"github.com/eprocure/lookups/internal/tasks"
)

// =============================================================================
// Option Lifecycle
// =============================================================================

// Store implementations
var _ options.Store = (*lookups.Repository)(nil)

// OptionService implementations
var _ http.OptionService = (*options.Service)(nil)

// =============================================================================
// Health
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Audit Retention
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.CleanupEnqueuer = (*tasks.Client)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.CleanupTrigger = (*scheduler.AuditCleanupScheduler)(nil)
