package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/swasthlog/internal/models"
)

func TestOpen_CreatesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	arc, err := Open(dir)
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.DirExists(t, filepath.Join(dir, "work"))
	assert.Equal(t, dir, arc.Dir())
}

func TestStore_NameShape(t *testing.T) {
	arc, err := Open(t.TempDir())
	require.NoError(t, err)

	at := time.Date(2026, 8, 31, 9, 15, 42, 0, time.Local)
	art, err := arc.Store(models.RoleVoice, at, models.NewMediaBlob("note.mp3", []byte("audio")))
	require.NoError(t, err)

	assert.Equal(t, "20260831091542_voice_note.mp3", art.StoredName)
	got, err := os.ReadFile(art.StoredPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), got)
}

func TestStore_SameSecondDifferentRoles(t *testing.T) {
	arc, err := Open(t.TempDir())
	require.NoError(t, err)

	at := time.Now()
	voice, err := arc.Store(models.RoleVoice, at, models.NewMediaBlob("note.mp3", []byte("a")))
	require.NoError(t, err)
	condition, err := arc.Store(models.RoleCondition, at, models.NewMediaBlob("status.wav", []byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, voice.StoredName, condition.StoredName)
}

func TestStore_CollisionBumpsInsteadOfOverwriting(t *testing.T) {
	arc, err := Open(t.TempDir())
	require.NoError(t, err)

	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	first, err := arc.Store(models.RoleVoice, at, models.NewMediaBlob("note.mp3", []byte("first")))
	require.NoError(t, err)
	second, err := arc.Store(models.RoleVoice, at, models.NewMediaBlob("note.mp3", []byte("second")))
	require.NoError(t, err)
	third, err := arc.Store(models.RoleVoice, at, models.NewMediaBlob("note.mp3", []byte("third")))
	require.NoError(t, err)

	assert.Equal(t, "20260831120000_voice_note.mp3", first.StoredName)
	assert.Equal(t, "20260831120000_voice_note_1.mp3", second.StoredName)
	assert.Equal(t, "20260831120000_voice_note_2.mp3", third.StoredName)

	got, err := os.ReadFile(first.StoredPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got, "earlier artifact must survive untouched")
}

func TestStore_TraversalNameStaysInArchive(t *testing.T) {
	root := t.TempDir()
	arc, err := Open(filepath.Join(root, "nested", "uploads"))
	require.NoError(t, err)

	art, err := arc.Store(models.RoleVoice, time.Now(), models.NewMediaBlob("../../../evil.wav", []byte("x")))
	require.NoError(t, err)

	assert.Equal(t, arc.Dir(), filepath.Dir(art.StoredPath))
	assert.True(t, strings.HasSuffix(art.StoredName, "_voice_evil.wav"), art.StoredName)
	assert.NoFileExists(t, filepath.Join(root, "evil.wav"))
}

func TestCount_ExcludesWorkingArea(t *testing.T) {
	arc, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(arc.WorkDir(), "note.wav"), []byte("x"), 0o644))

	n, err := arc.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = arc.Store(models.RoleCondition, time.Now(), models.NewMediaBlob("s.wav", []byte("y")))
	require.NoError(t, err)

	n, err = arc.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
