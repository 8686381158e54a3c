// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL or SQLite connections from the application
// configuration. Table sources query through the returned *gorm.DB.
//
// # Schema Inspection
//
// TableColumns and HasColumn check that a table carries the column a source
// joins on before any match runs.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	ok, err := database.HasColumn(db, "articles", "id")
package database
