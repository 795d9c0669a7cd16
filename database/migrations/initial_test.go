package migrations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/shopdesk/database/migrations"
	"github.com/shashiranjanraj/shopdesk/pkg/database"
	"github.com/shashiranjanraj/shopdesk/pkg/migration"
)

var tables = []string{"users", "shops", "products", "sales", "sale_items", "access_tokens"}

func TestMigrateAndRollback(t *testing.T) {
	db := database.OpenTest(t)
	runner := migration.New(db)

	ran, err := runner.Run()
	require.NoError(t, err)
	assert.Len(t, ran, len(tables))
	for _, name := range tables {
		assert.True(t, db.Migrator().HasTable(name), name)
	}

	again, err := runner.Run()
	require.NoError(t, err)
	assert.Empty(t, again)

	status, err := runner.Status()
	require.NoError(t, err)
	for _, s := range status {
		assert.True(t, s.Ran, s.Name)
		assert.Equal(t, 1, s.Batch, s.Name)
	}

	undone, err := runner.Rollback()
	require.NoError(t, err)
	assert.Len(t, undone, len(tables))
	assert.Equal(t, "2026_01_01_000006_create_access_tokens_table", undone[0])
	for _, name := range tables {
		assert.False(t, db.Migrator().HasTable(name), name)
	}
}
