// Package database opens the lookup store and migrates its tables.
//
// Every option kind gets its own table with the same columns, named after the
// kind ("country_option" lives in "country_options"). Only the kinds passed to
// NewDatabase are migrated, so ENABLED_KINDS also controls the schema.
//
//	database/
//	├── database.go      # sqlite or postgres dialector, per-kind migrations
//	├── lookups/         # options.Store bound to one kind's table
//	└── audit/           # audit events and retention deletes
//
// # Usage
//
//	db, err := database.NewDatabase(cfg.Database, kinds)
//
//	kind, _ := entities.LookupKind("currency_option")
//	svc := options.NewService(kind, lookups.NewRepository(db.DB, kind))
package database
