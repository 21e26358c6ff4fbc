package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikhilbhutani/swasthlog/internal/models"
)

// Archive is the durable flat-file store for original uploads. Final
// artifacts live in the root directory; the working area under work/ holds
// normalizer byproducts and is never counted as archived output.
//
// The directory is shared across sessions with no locking; name collisions
// are avoided by the bump in Store, not by coordination.
type Archive struct {
	dir     string
	workDir string
}

// Open ensures the archive directory and its working area exist.
func Open(dir string) (*Archive, error) {
	workDir := filepath.Join(dir, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Archive{dir: dir, workDir: workDir}, nil
}

func (a *Archive) Dir() string     { return a.dir }
func (a *Archive) WorkDir() string { return a.workDir }

// Store writes an original blob under
//
//	{timestamp}_{role}_{original name}
//
// with the timestamp at second resolution. If that name is already taken the
// suffix _1, _2, ... is inserted before the extension rather than silently
// overwriting. Artifacts are immutable: no delete, update, or versioning.
func (a *Archive) Store(role models.Role, at time.Time, blob *models.MediaBlob) (*models.ArchivedArtifact, error) {
	base := fmt.Sprintf("%s_%s_%s", at.Format("20060102150405"), role, blob.OriginalName)

	name := base
	for i := 1; exists(filepath.Join(a.dir, name)); i++ {
		name = bump(base, i)
	}

	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, blob.Bytes, 0o644); err != nil {
		return nil, fmt.Errorf("archive %s: %w", name, err)
	}
	return &models.ArchivedArtifact{StoredName: name, StoredPath: path}, nil
}

// Count returns the number of final artifacts (working-area files excluded).
func (a *Archive) Count() (int, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n, nil
}

func bump(base string, i int) string {
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), i, ext)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
