package models

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Lists database columns that no longer map to a field on the Go models, which
usually means a column was renamed or dropped from a struct but not from the
database.

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run main.go
*/

// All returns one zero value of every persisted model, in migration order.
func All() []any {
	return []any{
		&Project{},
		&BlogPost{},
		&Comment{},
		&BlogImage{},
		&GalleryItem{},
		&ContactMessage{},
	}
}

// Migrate creates or updates every table the site needs.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// GenerateModels migrates the schema, prints the column report and writes
// typed query helpers to ./generated.
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	log.Info().Msg("migrating models")
	migrateDB := db.Session(&gorm.Session{SkipDefaultTransaction: true, PrepareStmt: false})
	if err := Migrate(migrateDB); err != nil {
		return err
	}

	report, err := ColumnMismatchReport(db)
	if err != nil {
		return err
	}
	report.Log()

	g.Execute()
	log.Info().Msg("model generation complete")
	return nil
}

// ColumnReport maps table name to the columns that no model field accounts for.
// Tables that do not exist yet are listed in Missing.
type ColumnReport struct {
	Mismatches map[string][]string
	Missing    []string
}

func (r ColumnReport) Total() int {
	total := 0
	for _, cols := range r.Mismatches {
		total += len(cols)
	}
	return total
}

func (r ColumnReport) Log() {
	tables := make([]string, 0, len(r.Mismatches))
	for table := range r.Mismatches {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		log.Warn().Str("table", table).Strs("columns", r.Mismatches[table]).Msg("columns not accounted for in model")
	}
	for _, table := range r.Missing {
		log.Info().Str("table", table).Msg("table does not exist yet")
	}
	log.Info().Int("total", r.Total()).Msg("column mismatch report complete")
}

// ColumnMismatchReport compares live table columns with the parsed model schemas.
func ColumnMismatchReport(db *gorm.DB) (ColumnReport, error) {
	report := ColumnReport{Mismatches: make(map[string][]string)}
	cache := &sync.Map{}

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return report, fmt.Errorf("parse schema for %T: %w", model, err)
		}

		if !db.Migrator().HasTable(s.Table) {
			report.Missing = append(report.Missing, s.Table)
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return report, fmt.Errorf("columns for %s: %w", s.Table, err)
		}

		known := make(map[string]struct{}, len(s.DBNames))
		for _, name := range s.DBNames {
			known[name] = struct{}{}
		}

		for _, col := range columnTypes {
			if _, ok := known[col.Name()]; !ok {
				report.Mismatches[s.Table] = append(report.Mismatches[s.Table], col.Name())
			}
		}
	}

	return report, nil
}
