package repository

import (
	"database/sql"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/require"
)

// The read/write SQL is kept ANSI so the repositories run unchanged on the
// embedded SQLite engine used here and on MySQL in production.
var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		auth_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quote_id TEXT NOT NULL UNIQUE,
		user_id INTEGER NOT NULL,
		text TEXT NOT NULL,
		author TEXT NOT NULL,
		collection TEXT NOT NULL DEFAULT 'General',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE quote_tags (
		quote_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		tag TEXT NOT NULL,
		PRIMARY KEY (quote_id, tag)
	)`,
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Each pool connection would get its own :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	return db
}
