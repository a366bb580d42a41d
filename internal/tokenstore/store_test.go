package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenJSON = `{"access_token":"ya29.a0","refresh_token":"1//0g","expires_in":3599,"token_type":"Bearer"}`

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, Key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, Key, []byte(tokenJSON)))
	got, err := s.Load(ctx, Key)
	require.NoError(t, err)
	assert.JSONEq(t, tokenJSON, string(got))

	// Saving again replaces the value.
	require.NoError(t, s.Save(ctx, Key, []byte(`{"access_token":"ya29.b1"}`)))
	got, err = s.Load(ctx, Key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"ya29.b1"}`, string(got))

	require.NoError(t, s.Delete(ctx, Key))
	_, err = s.Load(ctx, Key)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	assert.NoError(t, s.Delete(ctx, "missing"))
	assert.NoError(t, s.Close())
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	v := []byte(tokenJSON)
	require.NoError(t, m.Save(context.Background(), Key, v))
	v[0] = 'X'

	got, err := m.Load(context.Background(), Key)
	require.NoError(t, err)
	assert.Equal(t, tokenJSON, string(got))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	exerciseStore(t, NewFile(dir))

	s := NewFile(dir)
	require.NoError(t, s.Save(context.Background(), Key, []byte(tokenJSON)))
	data, err := os.ReadFile(filepath.Join(dir, Key+".json"))
	require.NoError(t, err)
	assert.Equal(t, tokenJSON, string(data))
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestSQLiteRejectsNonDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	junk := make([]byte, 4096)
	for i := range junk {
		junk[i] = 'x'
	}
	require.NoError(t, os.WriteFile(path, junk, 0o600))

	s, err := NewSQLite(path)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_URL to run against a postgres database")
	}
	s, err := NewPostgres(context.Background(), dsn)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, "file", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(ctx, "sqlite", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	assert.NoError(t, s.Close())

	_, err = Open(ctx, "redis", "")
	assert.Error(t, err)
}
