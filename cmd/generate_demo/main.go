// Command generate_demo creates a demo database with sample lookup options.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/eprocure/lookups/internal/database"
	"github.com/eprocure/lookups/internal/entities"
	"github.com/eprocure/lookups/internal/entrypoint"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type sample struct {
	name        string
	description string
}

var samples = map[string][]sample{
	"country_option": {
		{"Rwanda", "RW"},
		{"Kenya", "KE"},
		{"Uganda", "UG"},
		{"Tanzania", "TZ"},
		{"Burundi", "BI"},
	},
	"currency_option": {
		{"RWF", "Rwandan Franc"},
		{"USD", "US Dollar"},
		{"EUR", "Euro"},
		{"KES", "Kenyan Shilling"},
	},
	"gender_option": {
		{"Female", ""},
		{"Male", ""},
	},
	"plan_status_option": {
		{"Draft", "Plan is being prepared"},
		{"Submitted", "Plan awaits approval"},
		{"Approved", "Plan approved for execution"},
		{"Rejected", "Plan returned to the entity"},
	},
	"procurement_method_option": {
		{"Open Competitive Bidding", ""},
		{"Restricted Bidding", ""},
		{"Request for Quotations", ""},
		{"Single Source", ""},
	},
	"tender_stage_option": {
		{"Preparation", ""},
		{"Publication", ""},
		{"Evaluation", ""},
		{"Award", ""},
		{"Contract", ""},
	},
	"fiscal_year_option": {
		{"2024/2025", ""},
		{"2025/2026", ""},
	},
}

// Options soft-deleted after seeding so the demo shows both states.
var retired = map[string]string{
	"currency_option":    "EUR",
	"plan_status_option": "Rejected",
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	kinds := make([]entities.Kind, 0, len(samples))
	for name := range samples {
		kind, ok := entities.LookupKind(name)
		if !ok {
			log.Fatalf("Unknown kind in samples: %s", name)
		}
		kinds = append(kinds, kind)
	}

	db, err := database.NewSQLiteDatabase(*dbPath, kinds)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, svc := range entrypoint.NewServices(db) {
		kind := svc.Kind()
		batch := make([]entities.Option, 0, len(samples[kind.Name]))
		for _, s := range samples[kind.Name] {
			batch = append(batch, entities.Option{ID: uuid.NewString(), Name: s.name, Description: s.description})
		}

		saved, err := svc.SaveMany(ctx, batch)
		if err != nil {
			log.Printf("Failed to seed %s: %v", kind.Name, err)
			continue
		}
		log.Printf("Saved %d %s records", len(saved), kind.DisplayName)

		if name, ok := retired[kind.Name]; ok {
			for _, o := range saved {
				if o.Name != name {
					continue
				}
				if _, err := svc.SoftDelete(ctx, o.ID); err != nil {
					log.Printf("Failed to retire %s %s: %v", kind.Name, name, err)
				}
			}
		}
	}

	log.Printf("Demo database generated at %s", *dbPath)
}
