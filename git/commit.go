package git

import (
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jackmusick/gitsync/errors"
)

// Commit records the pending working-tree changes as a new commit on the
// current branch.
//
// When a merge is staged (marker present, zero conflicted entries) the commit
// becomes the merge commit, with the remote tip recorded in the marker as its
// second parent, and the marker is cleared afterwards. Unresolved conflicts
// block committing entirely.
func (s *Syncer) Commit(message string) (*CommitResult, error) {
	repo, err := s.openRepo()
	if err != nil {
		return nil, err
	}

	conflicted, err := repo.conflictedPaths()
	if err != nil {
		return nil, err
	}
	if len(conflicted) > 0 {
		return nil, errors.New(errors.CodeMergeInProgress,
			"cannot commit with unresolved conflicts: resolve each conflict or abort the merge first")
	}

	mergeHash, merging, err := repo.readMergeState()
	if err != nil {
		return nil, err
	}

	changes, err := s.pendingChanges(repo)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 && !merging {
		return nil, errors.New(errors.CodeInvalidInput, "nothing to commit")
	}

	wt, err := repo.repo.Worktree()
	if err != nil {
		return nil, wrapError(err, "failed to open worktree")
	}

	for _, change := range changes {
		if change.Kind == ChangeDeleted {
			if err := repo.removeIndexEntries(change.Path, 0); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := wt.Add(change.Path); err != nil {
			return nil, wrapError(err, "failed to stage "+change.Path)
		}
	}

	opts := &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  s.author.Name,
			Email: s.author.Email,
			When:  time.Now(),
		},
	}
	if merging {
		head, err := repo.Head()
		if err != nil {
			return nil, err
		}
		opts.Parents = []plumbing.Hash{head.Hash, mergeHash}
		opts.AllowEmptyCommits = true
	}

	hash, err := wt.Commit(message, opts)
	if err != nil {
		return nil, wrapError(err, "failed to create commit")
	}

	if merging {
		if err := repo.clearMergeState(); err != nil {
			return nil, err
		}
	}

	s.progressf("committed %d file(s) as %s", len(changes), hash.String()[:8])
	return &CommitResult{
		Success:        true,
		CommitID:       hash.String(),
		FilesCommitted: len(changes),
	}, nil
}

// ResolveConflict marks one conflicted path as resolved, using whatever
// content the caller has already written to the working-tree file as the
// resolution. Returns the number of conflicted paths still remaining.
//
// Once every conflict is resolved, Commit finishes the merge.
func (s *Syncer) ResolveConflict(path string) (int, error) {
	repo, err := s.openRepo()
	if err != nil {
		return 0, err
	}

	conflicted, err := repo.conflictedPaths()
	if err != nil {
		return 0, err
	}
	found := false
	for _, p := range conflicted {
		if p == path {
			found = true
			break
		}
	}
	if !found {
		return 0, errors.New(errors.CodeNotFound, "no conflict recorded for "+path)
	}

	content, err := repo.readWorkingFile(path)
	if err != nil {
		return 0, wrapError(err, "failed to read resolution for "+path)
	}
	hash, err := repo.writeBlob(content)
	if err != nil {
		return 0, err
	}

	idx, err := repo.repo.Storer.Index()
	if err != nil {
		return 0, wrapError(err, "failed to read index")
	}
	removeEntries(idx, path, 0)
	idx.Entries = append(idx.Entries, &index.Entry{
		Name: path,
		Hash: hash,
		Mode: filemode.Regular,
	})
	if err := repo.repo.Storer.SetIndex(idx); err != nil {
		return 0, wrapError(err, "failed to write index")
	}

	s.progressf("resolved conflict in %s", path)
	return len(conflicted) - 1, nil
}

// AbortMerge discards a merge in progress: the index loses every multi-stage
// entry, conflict-marker files revert to their HEAD content, and the merge
// marker is deleted. Fails when no merge is in progress.
func (s *Syncer) AbortMerge() error {
	repo, err := s.openRepo()
	if err != nil {
		return err
	}

	_, merging, err := repo.readMergeState()
	if err != nil {
		return err
	}
	if !merging {
		return errors.New(errors.CodeNotFound, "no merge in progress to abort")
	}

	head, err := repo.Head()
	if err != nil {
		return err
	}

	wt, err := repo.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to open worktree")
	}
	err = wt.Reset(&gogit.ResetOptions{
		Commit: head.Hash,
		Mode:   gogit.HardReset,
	})
	if err != nil {
		return wrapError(err, "failed to reset working tree")
	}

	if err := repo.clearMergeState(); err != nil {
		return err
	}

	s.progressf("merge aborted, workspace restored to %s", head.Hash.String()[:8])
	return nil
}
