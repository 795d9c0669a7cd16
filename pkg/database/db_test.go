package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteUsesUTC(t *testing.T) {
	db, err := Open("sqlite", "file::memory:", Options{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.Equal(t, time.UTC, db.Config.NowFunc().Location())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", Options{})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
