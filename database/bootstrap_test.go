package database

import (
	"path/filepath"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"paprika/entities"
)

func TestOpenSQLiteFreshDatabase(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&entities.Season{}))
	assert.True(t, db.Migrator().HasIndex(&entities.Season{}, seasonKeyIndex))
}

func TestOpenSQLiteDedupesLegacySeasons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	legacy, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, legacy.Exec(`
CREATE TABLE seasons (
    season_id INTEGER PRIMARY KEY AUTOINCREMENT,
    farmer_id INTEGER,
    season_year INTEGER,
    pricking_start TEXT,
    pricking_end TEXT,
    planting_start TEXT,
    planting_end TEXT,
    harvest_start TEXT,
    harvest_end TEXT,
    created_at DATETIME,
    updated_at DATETIME
)`).Error)
	require.NoError(t, legacy.Exec(`INSERT INTO seasons (farmer_id, season_year, pricking_start) VALUES (1, 2024, '2024-03-01')`).Error)
	require.NoError(t, legacy.Exec(`INSERT INTO seasons (farmer_id, season_year, pricking_start) VALUES (1, 2024, '2024-03-05')`).Error)
	require.NoError(t, legacy.Exec(`INSERT INTO seasons (farmer_id, season_year) VALUES (1, 2023)`).Error)
	sqlDB, err := legacy.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db, err := OpenSQLite(path)
	require.NoError(t, err)

	var rows []entities.Season
	require.NoError(t, db.Order("season_year ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, 2023, rows[0].SeasonYear)
	require.NotNil(t, rows[1].PrickingStart)
	assert.Equal(t, "2024-03-05", *rows[1].PrickingStart)
	assert.True(t, db.Migrator().HasIndex(&entities.Season{}, seasonKeyIndex))
}
