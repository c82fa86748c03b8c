package models

import (
	"fmt"
	"io"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Schema tooling.

	./site migrate           creates or alters every table below
	./site schema-report     lists columns present in the database but unknown to the models
	./site generate-queries  writes type-safe query helpers to ./generated

Example report:

	=== COLUMN MISMATCH REPORT ===
	--- Table: pessoa ---
	Found 1 columns not accounted for in model:
	  - telefone2

	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// All returns every persisted model, parents before children.
func All() []any {
	return []any{
		&Person{},
		&Application{},
		&Education{},
		&Experience{},
		&Language{},
		&Course{},
		&Specialist{},
		&BlogPost{},
		&User{},
	}
}

// Migrate creates or alters the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// GenerateQueries writes gorm/gen query helpers for all models into outPath.
func GenerateQueries(db *gorm.DB, outPath string) {
	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()
}

// TableMismatch lists the database columns of one table that no model field maps to.
type TableMismatch struct {
	Table   string
	Columns []string
	Missing bool
}

// ColumnMismatches compares each model with its live table.
func ColumnMismatches(db *gorm.DB) ([]TableMismatch, error) {
	var report []TableMismatch
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(model) {
			report = append(report, TableMismatch{Table: table, Missing: true})
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("columns of %s: %w", table, err)
		}

		known := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			known[name] = true
		}

		var extra []string
		for _, ct := range columnTypes {
			if !known[ct.Name()] {
				extra = append(extra, ct.Name())
			}
		}
		sort.Strings(extra)
		report = append(report, TableMismatch{Table: table, Columns: extra})
	}
	return report, nil
}

// WriteColumnReport prints ColumnMismatches in a human readable form.
func WriteColumnReport(db *gorm.DB, w io.Writer) error {
	report, err := ColumnMismatches(db)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")
	total := 0
	for _, t := range report {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", t.Table)
		switch {
		case t.Missing:
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
		case len(t.Columns) == 0:
			fmt.Fprintln(w, "All columns are accounted for in the model.")
		default:
			fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(t.Columns))
			for _, col := range t.Columns {
				fmt.Fprintf(w, "  - %s\n", col)
			}
			total += len(t.Columns)
		}
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return nil
}
