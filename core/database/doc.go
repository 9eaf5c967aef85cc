// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either MySQL (production) or SQLite (local runs and tests)
// from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns reads the live column list of a table. The schema integrity check
// compares it with the columns declared on the gorm models of the sync features.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "abandoned_animals")
package database
