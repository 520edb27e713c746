package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/Blog_APP_BackEnd/internal/repository/postgres/migrations"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, name := range entries {
		data, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		body := string(data)
		assert.Contains(t, body, "-- +goose Up", name)
		assert.Contains(t, body, "-- +goose Down", name)
	}

	users, err := fs.ReadFile(migrations.FS, "00001_create_user_account.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(users), "user_account_reset_pair_chk"))
}

func TestMigrateUsesEmbeddedDirectory(t *testing.T) {
	original := gooseUp
	t.Cleanup(func() { gooseUp = original })

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}

	db := sqlx.NewDb(&sql.DB{}, "pgx")
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return errors.New("boom")
	}
	err := Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate")
}
