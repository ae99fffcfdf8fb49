package git

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackmusick/gitsync/errors"
	cp "github.com/otiai10/copy"
)

// metadataArtifacts are platform droppings that desktop operating systems and
// the mount itself scatter into workspaces. They are invisible to every
// decision this engine makes: empty-workspace detection, backup moves, and
// change classification all apply this predicate first.
var metadataArtifacts = []string{
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
}

var metadataPrefixes = []string{
	"._", // AppleDouble resource forks
	"~$", // Office lock files
	".~", // LibreOffice lock files
}

// isMetadataArtifact reports whether a file name (not a path) is a platform
// metadata artifact.
func isMetadataArtifact(name string) bool {
	for _, artifact := range metadataArtifacts {
		if name == artifact {
			return true
		}
	}
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// realEntries lists directory entries that are neither metadata artifacts,
// the .git control directory, nor one of the caller's ignored entries (the
// workspace config directory, typically).
func realEntries(dir string, ignored map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFilesystem, "failed to list workspace")
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if name == ".git" || ignored[name] || isMetadataArtifact(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// materialize copies a staged directory tree (including any .git directory)
// onto the destination in one pass. Metadata artifacts and symlinks are
// skipped; a skipped symlink is reported through the sink.
func materialize(src, dst string, sink ProgressSink) error {
	opts := cp.Options{
		Skip: func(srcinfo os.FileInfo, src, dest string) (bool, error) {
			return isMetadataArtifact(filepath.Base(src)), nil
		},
		OnSymlink: func(src string) cp.SymlinkAction {
			if sink != nil {
				sink.Progress("ignoring symlink %q", filepath.Base(src))
			}
			return cp.Skip
		},
	}
	if err := cp.Copy(src, dst, opts); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to materialize staged files", map[string]interface{}{
			"src": src,
			"dst": dst,
		})
	}
	return nil
}

// backupWorkspace moves every real entry of the workspace into a fresh
// timestamped sibling directory and returns its path. A listed entry that has
// vanished by the time it is moved is a known artifact of the network mount:
// it is reported through the sink and skipped, never fatal.
func backupWorkspace(workspace string, ignored map[string]bool, sink ProgressSink) (string, error) {
	names, err := realEntries(workspace, ignored)
	if err != nil {
		return "", err
	}

	backup := strings.TrimRight(workspace, string(os.PathSeparator)) +
		"-backup-" + time.Now().Format("20060102-150405")
	if err := os.MkdirAll(backup, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeFilesystem, "failed to create backup directory")
	}

	for _, name := range names {
		src := filepath.Join(workspace, name)
		dst := filepath.Join(backup, name)

		if _, statErr := os.Stat(src); os.IsNotExist(statErr) {
			if sink != nil {
				sink.Progress("skipping phantom entry %q", name)
			}
			continue
		}

		if renameErr := os.Rename(src, dst); renameErr != nil {
			// Some mounts refuse rename across directories; fall back to
			// copy-then-delete.
			if copyErr := cp.Copy(src, dst); copyErr != nil {
				return "", errors.Wrapf(copyErr, errors.CodeFilesystem, "failed to back up %q", name)
			}
			if rmErr := os.RemoveAll(src); rmErr != nil {
				return "", errors.Wrapf(rmErr, errors.CodeFilesystem, "failed to remove %q after backup", name)
			}
		}
	}

	return backup, nil
}
