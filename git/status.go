package git

import (
	"context"
	stderrors "errors"
	"io"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/jackmusick/gitsync/errors"
)

// computeChanges diffs the index and working tree against HEAD and returns
// the pending changes, classified Added/Modified/Deleted/Untracked. Platform
// metadata artifacts, the caller's ignored top-level entries, and any path in
// excluded (the current conflict set) are never reported.
//
// Comparison is content-hash based rather than stat based: the mount drops
// permission and timestamp operations unpredictably, so only content counts.
func (r *Repository) computeChanges(excluded, ignored map[string]bool) ([]FileChange, error) {
	headLeaves, err := r.headLeaves()
	if err != nil {
		return nil, err
	}

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, wrapError(err, "failed to read index")
	}
	staged := make(map[string]bool)
	for _, entry := range idx.Entries {
		if entry.Stage == 0 {
			staged[entry.Name] = true
		}
	}

	onDisk := make(map[string]plumbing.Hash)
	if err := walkFiles(r.fs, "", ignored, func(path string, content []byte) {
		onDisk[path] = plumbing.ComputeHash(plumbing.BlobObject, content)
	}); err != nil {
		return nil, err
	}

	var changes []FileChange

	for path, diskHash := range onDisk {
		if excluded[path] {
			continue
		}
		headEntry, inHead := headLeaves[path]
		switch {
		case !inHead && staged[path]:
			changes = append(changes, FileChange{Path: path, Kind: ChangeAdded})
		case !inHead:
			changes = append(changes, FileChange{Path: path, Kind: ChangeUntracked})
		case headEntry.Hash != diskHash:
			changes = append(changes, FileChange{Path: path, Kind: ChangeModified})
		}
	}

	for path := range headLeaves {
		if excluded[path] {
			continue
		}
		if _, ok := onDisk[path]; !ok {
			changes = append(changes, FileChange{Path: path, Kind: ChangeDeleted})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// headLeaves flattens the HEAD tree. A repository with no commits yet has an
// empty HEAD tree.
func (r *Repository) headLeaves() (map[string]leafEntry, error) {
	head, err := r.repo.Head()
	if err != nil {
		if isReferenceNotFound(err) {
			return map[string]leafEntry{}, nil
		}
		return nil, wrapError(err, "failed to resolve HEAD")
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, wrapError(err, "failed to load HEAD commit")
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, wrapError(err, "failed to load HEAD tree")
	}
	return flattenTree(tree)
}

// walkFiles visits every regular file under dir, depth first. The .git
// directory, metadata artifacts, and the ignored top-level entries are
// skipped, and entries that vanish between listing and reading are tolerated
// (phantom directory entries are a known artifact of the mount).
func walkFiles(fs billy.Filesystem, dir string, ignored map[string]bool, fn func(path string, content []byte)) error {
	entries, err := fs.ReadDir(dirOrDot(dir))
	if err != nil {
		if isNotExist(err) {
			return nil
		}
		return wrapError(err, "failed to list "+dirOrDot(dir))
	}

	for _, entry := range entries {
		name := entry.Name()
		if isMetadataArtifact(name) {
			continue
		}
		if dir == "" && (name == ".git" || ignored[name]) {
			continue
		}

		path := name
		if dir != "" {
			path = dir + "/" + name
		}

		if entry.IsDir() {
			if err := walkFiles(fs, path, ignored, fn); err != nil {
				return err
			}
			continue
		}
		if !entry.Mode().IsRegular() {
			continue
		}

		f, err := fs.Open(path)
		if err != nil {
			if isNotExist(err) {
				continue
			}
			return wrapError(err, "failed to open "+path)
		}
		content, err := readAndClose(f)
		if err != nil {
			return wrapError(err, "failed to read "+path)
		}
		fn(path, content)
	}
	return nil
}

func dirOrDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// Changes returns the pending working-tree changes of the workspace
// repository, excluding conflicted paths.
func (s *Syncer) Changes() ([]FileChange, error) {
	repo, err := s.openRepo()
	if err != nil {
		return nil, err
	}
	return s.pendingChanges(repo)
}

// pendingChanges computes changes with the current conflict set excluded.
func (s *Syncer) pendingChanges(repo *Repository) ([]FileChange, error) {
	conflicted, err := repo.conflictedPaths()
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(conflicted))
	for _, p := range conflicted {
		excluded[p] = true
	}
	return repo.computeChanges(excluded, s.ignored)
}

// GetConflicts returns the conflict set of the merge in progress, one entry
// per conflicted path. An empty result with a merge marker present means the
// merge is staged and ready to commit.
func (s *Syncer) GetConflicts() ([]ConflictInfo, error) {
	repo, err := s.openRepo()
	if err != nil {
		return nil, err
	}
	return repo.conflicts()
}

// Status returns the aggregate repository status: pending changes, conflict
// set, merge flags, ahead/behind counts and the first history page. With
// opts.Fetch the remote-tracking refs are refreshed first; the default skips
// the network to keep status checks fast on slow mounts.
//
// Status performs no mutation: calling it twice without intervening changes
// yields identical results.
func (s *Syncer) Status(ctx context.Context, opts StatusOptions) (*Status, error) {
	status := &Status{}

	repo, err := s.openRepo()
	if err != nil {
		if isNotFound(err) {
			return status, nil
		}
		return nil, err
	}
	status.Initialized = true
	status.RemoteConfigured = repo.originURL() != ""

	branch, detached, err := repo.CurrentBranch()
	if err != nil {
		return nil, err
	}
	status.Branch = branch
	status.Detached = detached

	if opts.Fetch && status.RemoteConfigured {
		if err := s.fetch(ctx, repo); err != nil {
			return nil, err
		}
	}

	_, merging, err := repo.readMergeState()
	if err != nil {
		return nil, err
	}
	status.Merging = merging

	status.Conflicts, err = repo.conflicts()
	if err != nil {
		return nil, err
	}
	status.MergeReady = merging && len(status.Conflicts) == 0

	status.Changes, err = s.pendingChanges(repo)
	if err != nil {
		return nil, err
	}

	if !detached && status.RemoteConfigured {
		status.Ahead, status.Behind, err = s.aheadBehind(repo, branch)
		if err != nil {
			return nil, err
		}
	}

	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	status.History, err = s.history(repo, branch, 0, limit)
	if err != nil && !isReferenceNotFound(err) {
		return nil, err
	}

	return status, nil
}

// fetch refreshes remote-tracking refs under the fetch lock. The lock is a
// correctness requirement: the mount's lock-file protocol fails under
// concurrent fetches from independent in-process callers.
func (s *Syncer) fetch(ctx context.Context, repo *Repository) error {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	s.progressf("fetching from %s", repo.originURL())
	return s.remoteOps.Fetch(ctx, repo, FetchOptions{Auth: s.auth()})
}

// isReferenceNotFound matches unresolvable refs (an empty repository).
func isReferenceNotFound(err error) bool {
	return stderrors.Is(err, plumbing.ErrReferenceNotFound) || isNotFound(err)
}

func isNotFound(err error) bool {
	return errors.GetCode(err) == errors.CodeNotFound
}

// readAndClose drains a billy file and closes it in all cases.
func readAndClose(f io.ReadCloser) ([]byte, error) {
	content, err := io.ReadAll(f)
	closeErr := f.Close()
	if err != nil {
		return nil, err
	}
	return content, closeErr
}
