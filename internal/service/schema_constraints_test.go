package service

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/Blog_APP_BackEnd/internal/repository/postgres/migrations"
)

func TestConflictConstraintsExistInSchema(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, "00001_create_user_account.sql")
	require.NoError(t, err)
	schema := string(data)

	assert.Contains(t, schema, "CONSTRAINT "+constraintEmail+" UNIQUE (email)")
	assert.Contains(t, schema, "CONSTRAINT "+constraintUsername+" UNIQUE (username)")
}
