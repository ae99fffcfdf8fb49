package git

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/jackmusick/gitsync/errors"
)

const (
	// mergeHeadFile records the remote commit being merged, in the control
	// directory. Its presence is the merge-in-progress marker.
	mergeHeadFile = "MERGE_HEAD"

	// conflictSnapshotFile is a serialized snapshot of the conflict set,
	// written alongside the marker for diagnostics. Both files are always
	// deleted together.
	conflictSnapshotFile = "gitsync-conflicts.json"
)

// writeMergeState records a merge in progress against the given remote
// commit. An empty conflict set marks a staged-clean merge that is ready to
// commit.
func (r *Repository) writeMergeState(remote plumbing.Hash, conflicts []ConflictInfo) error {
	if err := util.WriteFile(r.dotgit, mergeHeadFile, []byte(remote.String()+"\n"), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeFilesystem, "failed to write merge marker")
	}

	if len(conflicts) == 0 {
		return nil
	}

	snapshot, err := json.MarshalIndent(conflicts, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to serialize conflict snapshot")
	}
	if err := util.WriteFile(r.dotgit, conflictSnapshotFile, snapshot, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeFilesystem, "failed to write conflict snapshot")
	}
	return nil
}

// readMergeState returns the remote commit of the merge in progress, if any.
func (r *Repository) readMergeState() (plumbing.Hash, bool, error) {
	content, err := util.ReadFile(r.dotgit, mergeHeadFile)
	if err != nil {
		if isNotExist(err) {
			return plumbing.ZeroHash, false, nil
		}
		return plumbing.ZeroHash, false, errors.Wrap(err, errors.CodeFilesystem, "failed to read merge marker")
	}

	hash := plumbing.NewHash(strings.TrimSpace(string(content)))
	if hash.IsZero() {
		return plumbing.ZeroHash, false, errors.New(errors.CodeInternal, "merge marker is corrupt")
	}
	return hash, true, nil
}

// clearMergeState deletes the merge marker and the conflict snapshot.
// Both are removed together; missing files are fine.
func (r *Repository) clearMergeState() error {
	for _, name := range []string{mergeHeadFile, conflictSnapshotFile} {
		if err := r.dotgit.Remove(name); err != nil && !isNotExist(err) {
			return errors.Wrapf(err, errors.CodeFilesystem, "failed to remove %s", name)
		}
	}
	return nil
}

// conflictedPaths returns the distinct paths with index entries above stage
// zero, sorted.
func (r *Repository) conflictedPaths() ([]string, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, wrapError(err, "failed to read index")
	}

	seen := make(map[string]bool)
	for _, entry := range idx.Entries {
		if entry.Stage > 0 {
			seen[entry.Name] = true
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// conflicts derives the full conflict set from the multi-stage index
// entries: ours from stage 2, theirs from stage 3, base from stage 1 when
// present. A side that deleted the path has no entry at its stage and
// contributes empty content.
func (r *Repository) conflicts() ([]ConflictInfo, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, wrapError(err, "failed to read index")
	}

	stages := make(map[string]map[index.Stage]plumbing.Hash)
	for _, entry := range idx.Entries {
		if entry.Stage == 0 {
			continue
		}
		if stages[entry.Name] == nil {
			stages[entry.Name] = make(map[index.Stage]plumbing.Hash)
		}
		stages[entry.Name][entry.Stage] = entry.Hash
	}

	paths := make([]string, 0, len(stages))
	for p := range stages {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	infos := make([]ConflictInfo, 0, len(paths))
	for _, path := range paths {
		info := ConflictInfo{Path: path}

		if hash, ok := stages[path][index.OurMode]; ok {
			content, err := r.readBlob(hash)
			if err != nil {
				return nil, err
			}
			info.Ours = string(content)
		}
		if hash, ok := stages[path][index.TheirMode]; ok {
			content, err := r.readBlob(hash)
			if err != nil {
				return nil, err
			}
			info.Theirs = string(content)
		}
		if hash, ok := stages[path][index.AncestorMode]; ok {
			content, err := r.readBlob(hash)
			if err != nil {
				return nil, err
			}
			base := string(content)
			info.Base = &base
		}

		infos = append(infos, info)
	}
	return infos, nil
}
