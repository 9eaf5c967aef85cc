package checks

import (
	"fmt"
	"reflect"
	"strings"

	"shelter-sync/core/database"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	NullMismatches []string `json:"null_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// Model is a gorm model with an explicit table name.
type Model interface {
	TableName() string
}

// CheckSchema verifies the database schema using gorm models as the source of truth.
// Only columns with an explicit `column:` tag are checked; types only when `type:` is set.
func CheckSchema(db *gorm.DB, models ...Model) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
		Errors:  []string{},
	}

	for _, model := range models {
		table := model.TableName()

		actualCols, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}
		if len(actualCols) == 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", table))
			report.Matched = false
			continue
		}

		tbl := checkTable(reflect.TypeOf(model), actualCols)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

func checkTable(t reflect.Type, actualCols []database.ColumnInfo) TableReport {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	tbl := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		NullMismatches: []string{},
		Status:         "ok",
	}

	actual := make(map[string]database.ColumnInfo, len(actualCols))
	for _, col := range actualCols {
		actual[col.Field] = col
	}

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("gorm")
		col := parseGormTag(tag, "column")
		if col == "" {
			continue
		}

		act, ok := actual[col]
		if !ok {
			tbl.MissingColumns = append(tbl.MissingColumns, col)
			tbl.Status = "error"
			continue
		}

		if exp := strings.ToLower(parseGormTag(tag, "type")); exp != "" && !strings.Contains(act.Type, exp) {
			tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", col, exp, act.Type))
			tbl.Status = "error"
		}

		// Only a declared NOT NULL is enforced; SQLite reports primary keys as nullable.
		if hasGormFlag(tag, "not null") && act.Null == "YES" && act.Key != "PRI" {
			tbl.NullMismatches = append(tbl.NullMismatches, fmt.Sprintf("%s: expected NOT NULL", col))
			tbl.Status = "error"
		}
	}
	return tbl
}

// parseGormTag returns the value of key in a gorm struct tag.
func parseGormTag(tag, key string) string {
	for _, p := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(p, key+":"); ok {
			return v
		}
	}
	return ""
}

func hasGormFlag(tag, flag string) bool {
	for _, p := range strings.Split(tag, ";") {
		if strings.EqualFold(strings.TrimSpace(p), flag) {
			return true
		}
	}
	return false
}
