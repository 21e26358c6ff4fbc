package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay(" Morning ")
	require.NoError(t, err)
	assert.Equal(t, Morning, tod)

	_, err = ParseTimeOfDay("noon")
	require.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("VOICE")
	require.NoError(t, err)
	assert.Equal(t, RoleVoice, role)

	_, err = ParseRole("audio")
	require.Error(t, err)
}

func TestNewMediaBlob(t *testing.T) {
	blob := NewMediaBlob("Note.MP3", []byte("x"))
	assert.Equal(t, "Note.MP3", blob.OriginalName)
	assert.Equal(t, "mp3", blob.Ext)

	blob = NewMediaBlob("plain", []byte("x"))
	assert.Empty(t, blob.Ext)
}

func TestNewMediaBlob_StripsDirectoryComponents(t *testing.T) {
	for name, want := range map[string]string{
		"../../../evil.wav":     "evil.wav",
		"/etc/passwd.txt":       "passwd.txt",
		`..\..\evil.wav`:        "evil.wav",
		`C:\notes\status.docx`:  "status.docx",
		"uploads/../../out.mp3": "out.mp3",
	} {
		blob := NewMediaBlob(name, []byte("x"))
		assert.Equal(t, want, blob.OriginalName, name)
	}

	for _, name := range []string{"..", ".", "/", ""} {
		blob := NewMediaBlob(name, []byte("x"))
		assert.Empty(t, blob.OriginalName, name)
		assert.Empty(t, blob.Ext, name)
	}
}
