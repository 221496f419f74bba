package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/eprocure/lookups/internal/config"
	"github.com/eprocure/lookups/internal/database"
	"github.com/eprocure/lookups/internal/database/lookups"
	"github.com/eprocure/lookups/internal/entities"
	"github.com/eprocure/lookups/internal/options"
)

// SeedRecord is one element of a seed file.
type SeedRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SeedCommand loads a JSON array of options into one kind's table.
type SeedCommand struct {
	Kind         string
	FilePath     string
	DatabasePath string
	SkipExisting bool
	DryRun       bool
	Verbose      bool

	out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.Kind, "kind", "", "Option kind to seed, e.g. country_option (required)")
	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON array of {\"name\", \"description\"} objects (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the sqlite database file")
	fs.BoolVar(&cmd.SkipExisting, "skip-existing", false, "Skip records whose name or id is already stored instead of failing")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be inserted without making changes")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every record")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed -kind <name> -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert lookup options from a JSON file. The batch is written in one\n")
		fmt.Fprintf(os.Stderr, "transaction: a name or id collision aborts the whole file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s seed -kind currency_option -file currencies.json -skip-existing\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Kind == "" {
		return fmt.Errorf("required flag -kind not provided")
	}
	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if _, ok := entities.LookupKind(cmd.Kind); !ok {
		return fmt.Errorf("unknown kind %q (run '%s kinds' for the list)", cmd.Kind, os.Args[0])
	}
	return nil
}

func (cmd *SeedCommand) Run() error {
	kind, _ := entities.LookupKind(cmd.Kind)

	records, err := readSeedFile(cmd.FilePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "Seeding %s from %s (%d records)\n", kind.DisplayName, cmd.FilePath, len(records))
	if cmd.DryRun {
		fmt.Fprintln(cmd.out, "DRY RUN MODE - No changes will be made")
	}

	db, err := database.NewSQLiteDatabase(cmd.DatabasePath, []entities.Kind{kind})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	svc := options.NewService(kind, lookups.NewRepository(db.DB, kind))
	ctx := context.Background()

	batch, skipped, err := cmd.prepare(ctx, svc, records)
	if err != nil {
		return err
	}

	if cmd.Verbose {
		for _, o := range batch {
			fmt.Fprintf(cmd.out, "  + %s  %s\n", o.ID, o.Name)
		}
		for _, name := range skipped {
			fmt.Fprintf(cmd.out, "  = %s (exists)\n", name)
		}
	}

	if len(batch) == 0 {
		fmt.Fprintf(cmd.out, "Nothing to insert (%d skipped)\n", len(skipped))
		return nil
	}

	if cmd.DryRun {
		fmt.Fprintf(cmd.out, "Would insert %d records (%d skipped)\n", len(batch), len(skipped))
		return nil
	}

	saved, err := svc.SaveMany(ctx, batch)
	if err != nil {
		return fmt.Errorf("seed %s: %w", kind.Name, err)
	}

	fmt.Fprintf(cmd.out, "Inserted %d records (%d skipped)\n", len(saved), len(skipped))
	return nil
}

// prepare assigns ids and, with -skip-existing, drops records whose name or
// id is already stored, soft-deleted rows included.
func (cmd *SeedCommand) prepare(ctx context.Context, svc *options.Service, records []SeedRecord) ([]entities.Option, []string, error) {
	existing := map[string]bool{}
	existingIDs := map[string]bool{}
	if cmd.SkipExisting {
		all, err := svc.HardReadAll(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read existing options: %w", err)
		}
		for _, o := range all {
			existing[o.Name] = true
			existingIDs[o.ID] = true
		}
	}

	var batch []entities.Option
	var skipped []string
	for i, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("record %d has no name", i)
		}
		if existing[name] || (r.ID != "" && existingIDs[r.ID]) {
			skipped = append(skipped, name)
			continue
		}
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch = append(batch, entities.Option{ID: id, Name: name, Description: r.Description})
	}
	return batch, skipped, nil
}

func readSeedFile(path string) ([]SeedRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var records []SeedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return records, nil
}
