package git

import (
	"context"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jackmusick/gitsync/errors"
)

// Pull fetches the remote branch and reconciles it into the workspace.
//
// The outcome depends on how the histories relate:
//   - local already contains the remote tip: no-op success
//   - local strictly behind: fast-forward, UpdatedFiles lists every path that
//     differs between the two tips
//   - histories diverged cleanly: the merged tree is staged into the index
//     and working tree with a merge marker; a subsequent Commit produces the
//     merge commit
//   - histories diverged with conflicts: conflict markers are written into
//     each conflicted file, the index carries multi-stage entries, and the
//     result has Success=false with the conflict set populated
//
// Conflicts are a first-class result, not an error. A pull that would
// overwrite uncommitted local changes fails before mutating anything.
func (s *Syncer) Pull(ctx context.Context) (*PullResult, error) {
	repo, err := s.openRepo()
	if err != nil {
		return nil, err
	}

	// A leftover merge blocks pulling until it is resolved or aborted. A
	// marker with no remaining conflicted entries is stale (crash between
	// resolve and commit) and is discarded.
	if _, merging, err := repo.readMergeState(); err != nil {
		return nil, err
	} else if merging {
		conflicted, err := repo.conflictedPaths()
		if err != nil {
			return nil, err
		}
		if len(conflicted) > 0 {
			return nil, errors.New(errors.CodeMergeInProgress,
				"a merge with unresolved conflicts is in progress: resolve each conflict or abort the merge before pulling")
		}
		if err := repo.clearMergeState(); err != nil {
			return nil, err
		}
	}

	if repo.originURL() == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "no remote configured for workspace")
	}

	branch, err := s.resolveBranch(repo)
	if err != nil {
		return nil, err
	}

	if err := s.fetch(ctx, repo); err != nil {
		return nil, err
	}

	remoteHash, ok, err := repo.remoteTrackingHash(DefaultRemoteName, branch)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.progressf("remote has no branch %q, nothing to pull", branch)
		return &PullResult{Success: true}, nil
	}

	local, err := repo.Head()
	if err != nil {
		return nil, err
	}

	upToDate, err := repo.descends(local.Hash, remoteHash)
	if err != nil {
		return nil, err
	}
	if upToDate {
		s.progressf("already up to date")
		return &PullResult{Success: true}, nil
	}

	remote, err := repo.repo.CommitObject(remoteHash)
	if err != nil {
		return nil, wrapError(err, "failed to load remote commit "+remoteHash.String())
	}

	base, err := mergeBase(local, remote)
	if err != nil {
		return nil, err
	}
	if base != nil && base.Hash == remoteHash {
		// Local is strictly ahead; push will reconcile.
		s.progressf("local branch is ahead of remote, nothing to pull")
		return &PullResult{Success: true}, nil
	}

	localTree, err := local.Tree()
	if err != nil {
		return nil, wrapError(err, "failed to load local tree")
	}
	remoteTree, err := remote.Tree()
	if err != nil {
		return nil, wrapError(err, "failed to load remote tree")
	}
	var baseTree *object.Tree
	if base != nil {
		baseTree, err = base.Tree()
		if err != nil {
			return nil, wrapError(err, "failed to load merge-base tree")
		}
	}

	localLeaves, err := flattenTree(localTree)
	if err != nil {
		return nil, err
	}
	remoteLeaves, err := flattenTree(remoteTree)
	if err != nil {
		return nil, err
	}
	baseLeaves, err := flattenTree(baseTree)
	if err != nil {
		return nil, err
	}

	incoming := diffPaths(localLeaves, remoteLeaves)
	if err := s.checkCollisions(repo, incoming); err != nil {
		return nil, err
	}

	if base != nil && base.Hash == local.Hash {
		return s.fastForward(repo, branch, remoteHash, remoteLeaves, incoming)
	}

	result, err := repo.mergeTrees(baseTree, localTree, remoteTree)
	if err != nil {
		return nil, err
	}

	if err := repo.applyMerge(result.Apply); err != nil {
		return nil, err
	}

	if result.hasConflicts() {
		baseID := ""
		if base != nil {
			baseID = base.Hash.String()
		}
		for _, conflict := range result.Conflicts {
			markers := conflictMarkers(conflict, baseID, remoteHash.String())
			if err := repo.writeWorkingFile(conflict.Path, markers); err != nil {
				return nil, wrapError(err, "failed to write conflict markers to "+conflict.Path)
			}
		}
		if err := repo.stageConflicts(result.Conflicts, baseLeaves, localLeaves, remoteLeaves); err != nil {
			return nil, err
		}
		if err := repo.writeMergeState(remoteHash, result.Conflicts); err != nil {
			return nil, err
		}
		s.progressf("pull found %d conflicted file(s)", len(result.Conflicts))
		return &PullResult{Success: false, Conflicts: result.Conflicts}, nil
	}

	if err := repo.writeMergeState(remoteHash, nil); err != nil {
		return nil, err
	}
	updated := result.changedUnion()
	s.progressf("merged %d file(s), commit to finish the merge", len(updated))
	return &PullResult{Success: true, UpdatedFiles: updated}, nil
}

// fastForward moves the local branch to the remote tip, materializing only
// the paths that differ. Uncommitted changes to unrelated paths survive (the
// collision pre-check already rejected overlapping ones).
func (s *Syncer) fastForward(repo *Repository, branch string, remoteHash plumbing.Hash, remoteLeaves map[string]leafEntry, updated []string) (*PullResult, error) {
	applies := make([]mergeApply, 0, len(updated))
	for _, path := range updated {
		if entry, ok := remoteLeaves[path]; ok {
			applies = append(applies, mergeApply{Path: path, Hash: entry.Hash, Mode: entry.Mode})
		} else {
			applies = append(applies, mergeApply{Path: path, Delete: true})
		}
	}
	if err := repo.applyMerge(applies); err != nil {
		return nil, err
	}

	branchRef := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), remoteHash)
	if err := repo.repo.Storer.SetReference(branchRef); err != nil {
		return nil, wrapError(err, "failed to advance branch "+branch)
	}
	if err := repo.setRemoteTracking(DefaultRemoteName, branch, remoteHash); err != nil {
		return nil, err
	}

	s.progressf("fast-forwarded %s to %s", branch, remoteHash.String()[:8])
	return &PullResult{Success: true, UpdatedFiles: updated}, nil
}

// checkCollisions fails when an incoming remote change targets a path with
// uncommitted local edits. Nothing has been mutated yet at this point, so a
// failure here leaves the workspace untouched.
func (s *Syncer) checkCollisions(repo *Repository, incoming []string) error {
	changes, err := s.pendingChanges(repo)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	dirty := make(map[string]bool, len(changes))
	for _, change := range changes {
		dirty[change.Path] = true
	}

	var colliding []string
	for _, path := range incoming {
		if dirty[path] {
			colliding = append(colliding, path)
		}
	}
	if len(colliding) == 0 {
		return nil
	}
	sort.Strings(colliding)
	return errors.New(errors.CodeConflict,
		"pull would overwrite uncommitted changes: commit or revert these files first: "+strings.Join(colliding, ", "))
}

// mergeBase returns the best common ancestor of two commits, or nil for
// unrelated histories.
func mergeBase(local, remote *object.Commit) (*object.Commit, error) {
	bases, err := local.MergeBase(remote)
	if err != nil {
		return nil, wrapError(err, "failed to compute merge base")
	}
	if len(bases) == 0 {
		return nil, nil
	}
	return bases[0], nil
}

// diffPaths lists every path whose entry differs between two flattened
// trees, sorted.
func diffPaths(a, b map[string]leafEntry) []string {
	var paths []string
	for path, entryA := range a {
		entryB, ok := b[path]
		if !ok || entryA != entryB {
			paths = append(paths, path)
		}
	}
	for path := range b {
		if _, ok := a[path]; !ok {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}
