package git

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackmusick/gitsync/errors"
)

// Push uploads local commits on the current branch to the remote.
//
// Uncommitted changes block the push: the caller must commit or revert them
// first. When the local tip is already contained in the remote-tracking ref
// the push succeeds with CommitsPushed=0 and the transport is never invoked.
// On success the remote-tracking ref is advanced to the pushed commit
// immediately rather than waiting for a later fetch.
func (s *Syncer) Push(ctx context.Context) (*PushResult, error) {
	repo, err := s.openRepo()
	if err != nil {
		return nil, err
	}

	if repo.originURL() == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "no remote configured for workspace")
	}

	changes, err := s.pendingChanges(repo)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		paths := make([]string, len(changes))
		for i, change := range changes {
			paths[i] = change.Path
		}
		sort.Strings(paths)
		return nil, errors.New(errors.CodeConflict,
			"cannot push with uncommitted changes: commit or revert these files first: "+strings.Join(paths, ", "))
	}

	branch, err := s.resolveBranch(repo)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, err
	}

	remoteHash, tracked, err := repo.remoteTrackingHash(DefaultRemoteName, branch)
	if err != nil {
		return nil, err
	}

	var ahead int
	if tracked {
		remoteSet, err := repo.reachableSet(remoteHash)
		if err != nil {
			return nil, err
		}
		ahead, err = repo.countReachableExcluding(head.Hash, remoteSet)
		if err != nil {
			return nil, err
		}
	} else {
		localSet, err := repo.reachableSet(head.Hash)
		if err != nil {
			return nil, err
		}
		ahead = len(localSet)
	}

	if ahead == 0 {
		s.progressf("nothing to push, remote is up to date")
		return &PushResult{Success: true, CommitsPushed: 0}, nil
	}

	s.progressf("pushing %d commit(s) on %s", ahead, branch)
	err = s.remoteOps.Push(ctx, repo, PushOptions{
		RefSpecs: []string{fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)},
		Auth:     s.auth(),
	})
	if err != nil {
		return nil, err
	}

	if err := repo.setRemoteTracking(DefaultRemoteName, branch, head.Hash); err != nil {
		return nil, err
	}

	s.progressf("pushed %d commit(s)", ahead)
	return &PushResult{Success: true, CommitsPushed: ahead}, nil
}
