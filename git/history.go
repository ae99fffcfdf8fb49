package git

import (
	stderrors "errors"
	"io"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// reachableSet collects every commit reachable from tip, tip included.
func (r *Repository) reachableSet(tip plumbing.Hash) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)
	commit, err := r.repo.CommitObject(tip)
	if err != nil {
		return nil, wrapError(err, "failed to load commit "+tip.String())
	}

	iter := object.NewCommitPreorderIter(commit, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, wrapError(err, "failed to walk history from "+tip.String())
	}
	return seen, nil
}

// countReachableExcluding counts commits reachable from include that are not
// in the exclude set. The exclude set doubles as the walk frontier, so shared
// history is never traversed twice.
func (r *Repository) countReachableExcluding(include plumbing.Hash, exclude map[plumbing.Hash]bool) (int, error) {
	if exclude[include] {
		return 0, nil
	}
	commit, err := r.repo.CommitObject(include)
	if err != nil {
		return 0, wrapError(err, "failed to load commit "+include.String())
	}

	count := 0
	iter := object.NewCommitPreorderIter(commit, exclude, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, wrapError(err, "failed to walk history from "+include.String())
	}
	return count, nil
}

// descends reports whether tip has ancestor in its history (or is ancestor).
func (r *Repository) descends(tip, ancestor plumbing.Hash) (bool, error) {
	if tip == ancestor {
		return true, nil
	}
	commit, err := r.repo.CommitObject(tip)
	if err != nil {
		return false, wrapError(err, "failed to load commit "+tip.String())
	}

	found := false
	iter := object.NewCommitPreorderIter(commit, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == ancestor {
			found = true
			return storerStop
		}
		return nil
	})
	if err != nil && !stderrors.Is(err, storerStop) {
		return false, wrapError(err, "failed to walk history from "+tip.String())
	}
	return found, nil
}

// storerStop aborts a commit walk early. Never surfaces to callers.
var storerStop = stderrors.New("stop walk")

// aheadBehind counts commits unique to the local branch tip (ahead) and to
// its remote-tracking ref (behind). With no remote-tracking ref every local
// commit counts as ahead.
func (s *Syncer) aheadBehind(repo *Repository, branch string) (ahead, behind int, err error) {
	head, err := repo.Head()
	if err != nil {
		if isReferenceNotFound(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	remoteHash, ok, err := repo.remoteTrackingHash(DefaultRemoteName, branch)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		local, err := repo.reachableSet(head.Hash)
		if err != nil {
			return 0, 0, err
		}
		return len(local), 0, nil
	}

	remoteSet, err := repo.reachableSet(remoteHash)
	if err != nil {
		return 0, 0, err
	}
	ahead, err = repo.countReachableExcluding(head.Hash, remoteSet)
	if err != nil {
		return 0, 0, err
	}

	localSet, err := repo.reachableSet(head.Hash)
	if err != nil {
		return 0, 0, err
	}
	behind, err = repo.countReachableExcluding(remoteHash, localSet)
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// AheadBehind returns the current branch's divergence from its
// remote-tracking ref without touching the network.
func (s *Syncer) AheadBehind() (ahead, behind int, err error) {
	repo, err := s.openRepo()
	if err != nil {
		return 0, 0, err
	}
	branch, detached, err := repo.CurrentBranch()
	if err != nil {
		return 0, 0, err
	}
	if detached {
		return 0, 0, nil
	}
	return s.aheadBehind(repo, branch)
}

// History returns a page of commit history for the current branch, newest
// first. Each entry's Pushed flag reports whether the commit is reachable
// from the remote-tracking ref as of the last fetch or push.
func (s *Syncer) History(offset, limit int) ([]CommitInfo, error) {
	repo, err := s.openRepo()
	if err != nil {
		return nil, err
	}
	branch, detached, err := repo.CurrentBranch()
	if err != nil {
		if isReferenceNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if detached {
		branch = ""
	}
	return s.history(repo, branch, offset, limit)
}

func (s *Syncer) history(repo *Repository, branch string, offset, limit int) ([]CommitInfo, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	head, err := repo.Head()
	if err != nil {
		if isReferenceNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	pushed := map[plumbing.Hash]bool{}
	if branch != "" {
		remoteHash, ok, err := repo.remoteTrackingHash(DefaultRemoteName, branch)
		if err != nil {
			return nil, err
		}
		if ok {
			pushed, err = repo.reachableSet(remoteHash)
			if err != nil {
				return nil, err
			}
		}
	}

	var page []CommitInfo
	skipped := 0
	iter := object.NewCommitPreorderIter(head, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		if skipped < offset {
			skipped++
			return nil
		}
		if len(page) >= limit {
			return storerStop
		}
		page = append(page, CommitInfo{
			Hash:      c.Hash.String(),
			Author:    c.Author.Name,
			Email:     c.Author.Email,
			Message:   c.Message,
			Timestamp: c.Author.When,
			Pushed:    pushed[c.Hash],
		})
		return nil
	})
	if err != nil && !stderrors.Is(err, storerStop) && !stderrors.Is(err, io.EOF) {
		return nil, wrapError(err, "failed to walk commit history")
	}
	return page, nil
}
