package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Wikid82/argus/internal/models"
)

// setupTestDB creates a SQLite in-memory DB unique per test and applies a
// busy timeout and WAL journal mode to reduce locking during parallel tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Site{},
		&models.BotPolicy{},
		&models.OverrideEntry{},
		&models.TrafficEvent{},
		&models.RecomputeJob{},
		&models.AuditRecord{},
	))
	return db
}

func createTestSite(t *testing.T, db *gorm.DB) *models.Site {
	t.Helper()
	site := &models.Site{Name: "example", Domain: "example.com"}
	require.NoError(t, NewSiteService(db).Create(site))
	return site
}
