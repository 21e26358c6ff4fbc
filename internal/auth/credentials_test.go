package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/swasthlog/internal/models"
)

func writeUsers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileStore_ValidPair(t *testing.T) {
	path := writeUsers(t, `[
		{"mobile": 9876543210, "password": 123456},
		{"mobile": 9123456780, "password": 654321}
	]`)
	store := NewFileStore(path)

	require.NoError(t, store.Validate(context.Background(), "9876543210", "123456"))
	require.NoError(t, store.Validate(context.Background(), "9123456780", "654321"))
}

func TestFileStore_StringValues(t *testing.T) {
	path := writeUsers(t, `[{"mobile": "9876543210", "password": "123456"}]`)
	store := NewFileStore(path)

	require.NoError(t, store.Validate(context.Background(), "9876543210", "123456"))
}

func TestFileStore_UnknownPairsFail(t *testing.T) {
	path := writeUsers(t, `[{"mobile": 9876543210, "password": 123456}]`)
	store := NewFileStore(path)

	cases := [][2]string{
		{"9876543210", "000000"}, // right mobile, wrong password
		{"1111111111", "123456"}, // wrong mobile, right password
		{"", ""},
		{"9876543210", ""},
	}
	for _, c := range cases {
		err := store.Validate(context.Background(), c[0], c[1])
		assert.ErrorIs(t, err, models.ErrAuthFailure, "pair %v", c)
	}
}

func TestFileStore_CrossedPairFails(t *testing.T) {
	// Mobile from one record with the password of another must not match.
	path := writeUsers(t, `[
		{"mobile": 9876543210, "password": 123456},
		{"mobile": 9123456780, "password": 654321}
	]`)
	store := NewFileStore(path)

	err := store.Validate(context.Background(), "9876543210", "654321")
	assert.ErrorIs(t, err, models.ErrAuthFailure)
}

func TestFileStore_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))

	err := store.Validate(context.Background(), "9876543210", "123456")
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrAuthFailure))
}
