package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mwantia/photolio/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrations.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMigrateCreatesAllTables(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewMigrator(db).Migrate(ctx))

	for _, table := range []any{
		&models.Photo{}, &models.Tag{}, &models.Album{}, &models.Camera{},
		&models.HasTag{}, &models.InAlbum{}, &models.TakenWith{},
	} {
		assert.True(t, db.Migrator().HasTable(table), "missing table for %T", table)
	}

	// A second run must be a no-op.
	require.NoError(t, NewMigrator(db).Migrate(ctx))

	statuses, err := NewMigrator(db).Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, status := range statuses {
		assert.True(t, status.Applied)
	}
}

func TestRollbackDropsLastMigration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	migrator := NewMigrator(db)

	require.NoError(t, migrator.Migrate(ctx))
	require.NoError(t, migrator.Rollback(ctx))

	assert.False(t, db.Migrator().HasTable(&models.HasTag{}))
	assert.True(t, db.Migrator().HasTable(&models.Photo{}))

	statuses, err := migrator.Status(ctx)
	require.NoError(t, err)
	assert.True(t, statuses[0].Applied)
	assert.False(t, statuses[1].Applied)
}
