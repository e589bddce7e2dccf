package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-editor/pkg/config"
)

func TestNewSQLiteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "timetable.db")
	db, err := NewSQLite(context.Background(), config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.Get(&one, "SELECT 1"))
	assert.Equal(t, 1, one)
	assert.FileExists(t, path)
}

func TestPostgresDSNEscapesCredentials(t *testing.T) {
	dsn := postgresDSN(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "tt", Password: "p@ss word", Name: "timetable", SSLMode: "disable",
	})
	assert.Equal(t, "postgres://tt:p%40ss%20word@db:5432/timetable?application_name=timetable-editor&sslmode=disable", dsn)
}
