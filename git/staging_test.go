package git

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMetadataArtifact(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{".DS_Store", true},
		{"Thumbs.db", true},
		{"desktop.ini", true},
		{"._resource-fork", true},
		{"~$document.docx", true},
		{".~lock.ods", true},
		{"README.md", false},
		{"main.go", false},
		{".gitignore", false},
		{"DS_Store", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMetadataArtifact(tt.name))
		})
	}
}

func TestRealEntries_IgnoresArtifactsAndGitDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "data.csv", ".DS_Store", "._shadow"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	entries, err := realEntries(dir, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"notes.txt", "data.csv"}, entries)
}

func TestRealEntries_SkipsIgnoredEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".gitsync"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	entries, err := realEntries(dir, map[string]bool{".gitsync": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, entries)
}

func TestBackupWorkspace_MovesRealFiles(t *testing.T) {
	parent := t.TempDir()
	workspace := filepath.Join(parent, "workspace")
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "sub"), 0o755))

	files := map[string]string{
		"one.txt":       "first file",
		"two.txt":       "second file",
		"sub/three.txt": "nested file",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(workspace, name), []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(workspace, ".DS_Store"), []byte("junk"), 0o644))

	backup, err := backupWorkspace(workspace, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, backup)
	assert.NotEqual(t, workspace, backup)

	for name, content := range files {
		moved, err := os.ReadFile(filepath.Join(backup, name))
		require.NoError(t, err, "expected %s in backup", name)
		assert.Equal(t, content, string(moved))
		_, err = os.Stat(filepath.Join(workspace, name))
		assert.True(t, os.IsNotExist(err), "expected %s gone from workspace", name)
	}

	// Artifacts stay behind; they are not real workspace content.
	_, err = os.Stat(filepath.Join(backup, ".DS_Store"))
	assert.True(t, os.IsNotExist(err))
}

func TestBackupWorkspace_LeavesIgnoredEntries(t *testing.T) {
	parent := t.TempDir()
	workspace := filepath.Join(parent, "workspace")
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, ".gitsync"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, ".gitsync", "config.toml"), []byte("remote_url = \"o/r\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "notes.txt"), []byte("content"), 0o644))

	backup, err := backupWorkspace(workspace, map[string]bool{".gitsync": true}, nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(workspace, ".gitsync", "config.toml"))
	assert.NoError(t, err, "ignored entry must stay in the workspace")
	_, err = os.Stat(filepath.Join(backup, ".gitsync"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(backup, "notes.txt"))
	assert.NoError(t, err)
}

func TestBackupWorkspace_SkipsPhantomEntries(t *testing.T) {
	parent := t.TempDir()
	workspace := filepath.Join(parent, "workspace")
	require.NoError(t, os.MkdirAll(workspace, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "real.txt"), []byte("content"), 0o644))

	// A dangling symlink is listed by ReadDir but fails the stat before the
	// move, the same shape as a directory entry the mount reports and then
	// drops.
	require.NoError(t, os.Symlink(filepath.Join(parent, "gone"), filepath.Join(workspace, "ghost.txt")))

	var lines []string
	sink := ProgressFunc(func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	})

	backup, err := backupWorkspace(workspace, nil, sink)
	require.NoError(t, err)

	moved, err := os.ReadFile(filepath.Join(backup, "real.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(moved))

	_, err = os.Stat(filepath.Join(backup, "ghost.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, lines, `skipping phantom entry "ghost.txt"`)
}

func TestMaterialize_CopiesTreeAndFiltersArtifacts(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(src, ".git", "refs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref: refs/heads/master\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".DS_Store"), []byte("junk"), 0o644))

	require.NoError(t, materialize(src, dst, nil))

	head, err := os.ReadFile(filepath.Join(dst, ".git", "HEAD"))
	require.NoError(t, err)
	assert.Equal(t, "ref: refs/heads/master\n", string(head))

	_, err = os.Stat(filepath.Join(dst, "main.go"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, ".DS_Store"))
	assert.True(t, os.IsNotExist(err))
}
