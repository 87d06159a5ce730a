package database

import (
	"testing"
	"time"

	"brainvault/internal/config"
	"brainvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:       config.DriverSQLite,
		DBPath:         "file::memory:?cache=shared",
		DBQueryTimeout: time.Second,
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "expected table for %T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.ShareLink{}, "Hash"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 25, sqlDB.Stats().MaxOpenConnections)
}

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor(&config.Config{DBDriver: config.DriverPostgres, DBHost: "db", DBPort: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = dialectorFor(&config.Config{DBDriver: config.DriverSQLite, DBPath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = dialectorFor(&config.Config{DBDriver: "mongo"})
	assert.Error(t, err)
}
