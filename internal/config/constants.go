package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the lookup options database
	DefaultDatabasePath = "./lookups.db"

	// DefaultAuditCleanupSchedule runs audit retention daily at 03:00
	DefaultAuditCleanupSchedule = "0 3 * * *"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
