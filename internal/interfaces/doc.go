// Package interfaces documents the seams between the lookup service's layers.
//
// # Interface Categories
//
// ## Option Lifecycle
//
//   - Store: persistence for one option kind (internal/options/store.go)
//   - OptionService: what the HTTP layer needs from a kind's service (internal/http/options.go)
//
// ## Operations
//
//   - Pinger: database reachability for /health (internal/http/health.go)
//   - TaskStatusReader: task queue lookups (internal/http/tasks.go)
//   - CleanupTrigger: on-demand audit cleanup (internal/http/tasks.go)
//   - CleanupEnqueuer: scheduler to task queue hand-off (internal/scheduler/audit_cleanup.go)
//   - AuditEventCleaner: retention deletes run by the queue (internal/tasks/cleanup_audit.go)
//
// # Adding a New Option Kind
//
// Every kind shares one service and one repository type, so a new kind is a
// registry entry only:
//
//  1. Append the snake_case name to kindNames in internal/entities/kinds.go
//
//     "delivery_term_option",
//
//  2. Restart the service. The table "delivery_term_options" is migrated on
//     startup and the routes appear under /api/delivery_term_option.
//
// Kinds can be switched off per deployment with ENABLED_KINDS.
//
// # Adding a New Storage Backend
//
//  1. Implement options.Store in a package under internal/database/
//
//     type Repository struct { ... }
//
//     func (r *Repository) ExistsByName(ctx context.Context, name string) (bool, error)
//     ...
//
//     var _ options.Store = (*Repository)(nil)
//
//  2. Build services from it in entrypoint.NewServices
//
// Transaction must hand fn a Store bound to one unit of work. Batch service
// calls rely on it for all-or-nothing writes.
//
// # Compile-Time Interface Checks
//
// See checks.go for the var _ Interface = (*Impl)(nil) assertions.
package interfaces
