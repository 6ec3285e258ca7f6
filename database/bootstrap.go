// database/bootstrap.go
package database

import (
	"fmt"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paprika/entities"
)

const seasonKeyIndex = "idx_seasons_farmer_year"

// OpenSQLite opens the database at path and brings the schema up to date.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// must run before AutoMigrate: the unique index cannot be created over duplicates
	if err := dedupeSeasons(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := db.AutoMigrate(&entities.Season{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

// dedupeSeasons keeps only the newest row per (farmer_id, season_year) in a
// seasons table that predates the unique key.
func dedupeSeasons(db *gorm.DB) error {
	var tbl string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='seasons'`).Scan(&tbl).Error; err != nil {
		return fmt.Errorf("check table exist: %w", err)
	}
	if tbl == "" {
		// fresh DB, nothing to do
		return nil
	}

	var idx string
	if err := db.Raw(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, seasonKeyIndex).Scan(&idx).Error; err != nil {
		return fmt.Errorf("check index exist: %w", err)
	}
	if idx != "" {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
DELETE FROM seasons
WHERE season_id NOT IN (
    SELECT MAX(season_id) FROM seasons GROUP BY farmer_id, season_year
)`)
		if res.Error != nil {
			return fmt.Errorf("dedupe seasons: %w", res.Error)
		}
		return nil
	})
}
