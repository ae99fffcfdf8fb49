package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage"

	"github.com/jackmusick/gitsync/git"
)

// InProcessRemote implements git.RemoteOperations against another in-process
// repository instead of a network transport. Objects are copied between the
// two object stores directly and refs are updated the way a real fetch/push
// would, so tests exercise the full sync logic hermetically.
//
// Call counters record how often each operation touched the "network";
// no-op assertions check them.
type InProcessRemote struct {
	// Remote is the repository playing the server role.
	Remote *git.Repository

	CloneCalls int
	FetchCalls int
	PushCalls  int
}

// NewInProcessRemote creates an InProcessRemote serving the given repository.
func NewInProcessRemote(remote *git.Repository) *InProcessRemote {
	return &InProcessRemote{Remote: remote}
}

// Clone implements git.RemoteOperations.Clone by initializing a repository at
// path, copying every object from the remote, and checking out the requested
// branch (or the remote's current branch).
func (r *InProcessRemote) Clone(_ context.Context, path string, opts git.CloneOptions) (*git.Repository, error) {
	r.CloneCalls++

	repo, err := git.Init(path)
	if err != nil {
		return nil, err
	}
	if err := r.cloneInto(repo, opts.ReferenceName.Short(), opts.URL); err != nil {
		return nil, err
	}
	return repo, nil
}

// CloneInMemory produces a fresh in-memory clone of the remote, with origin
// configured. The usual starting point for sync scenarios.
func (r *InProcessRemote) CloneInMemory() (*git.Repository, error) {
	repo, err := git.Init("/", git.WithFilesystem(memfs.New()))
	if err != nil {
		return nil, err
	}
	if err := r.cloneInto(repo, "", TestRepoURL); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *InProcessRemote) cloneInto(repo *git.Repository, branch, url string) error {
	if err := copyObjects(r.Remote.Underlying().Storer, repo.Underlying().Storer); err != nil {
		return err
	}

	var err error
	if branch == "" {
		branch, _, err = r.Remote.CurrentBranch()
		if err != nil {
			return err
		}
	}

	tip, err := r.branchTip(branch)
	if err != nil {
		return err
	}

	branchRef := plumbing.NewBranchReferenceName(branch)
	storer := repo.Underlying().Storer
	if err := storer.SetReference(plumbing.NewHashReference(branchRef, tip)); err != nil {
		return fmt.Errorf("set branch ref: %w", err)
	}
	if err := storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)); err != nil {
		return fmt.Errorf("set HEAD: %w", err)
	}
	if err := r.updateTrackingRefs(repo); err != nil {
		return err
	}

	if url != "" {
		_, err = repo.Underlying().CreateRemote(&config.RemoteConfig{
			Name: git.DefaultRemoteName,
			URLs: []string{url},
		})
		if err != nil {
			return fmt.Errorf("configure origin: %w", err)
		}
	}

	wt, err := repo.Underlying().Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: tip, Mode: gogit.HardReset}); err != nil {
		return fmt.Errorf("check out %s: %w", branch, err)
	}
	return nil
}

// Fetch implements git.RemoteOperations.Fetch by copying all remote objects
// into the repository and refreshing every remote-tracking ref.
func (r *InProcessRemote) Fetch(_ context.Context, repo *git.Repository, _ git.FetchOptions) error {
	r.FetchCalls++

	if err := copyObjects(r.Remote.Underlying().Storer, repo.Underlying().Storer); err != nil {
		return err
	}
	return r.updateTrackingRefs(repo)
}

// Push implements git.RemoteOperations.Push by copying the repository's
// objects into the remote store and moving the remote's branch refs per the
// given refspecs.
func (r *InProcessRemote) Push(_ context.Context, repo *git.Repository, opts git.PushOptions) error {
	r.PushCalls++

	if err := copyObjects(repo.Underlying().Storer, r.Remote.Underlying().Storer); err != nil {
		return err
	}

	for _, refSpec := range opts.RefSpecs {
		src, dst, ok := strings.Cut(refSpec, ":")
		if !ok {
			return fmt.Errorf("malformed refspec %q", refSpec)
		}
		ref, err := repo.Underlying().Reference(plumbing.ReferenceName(src), true)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", src, err)
		}
		err = r.Remote.Underlying().Storer.SetReference(
			plumbing.NewHashReference(plumbing.ReferenceName(dst), ref.Hash()))
		if err != nil {
			return fmt.Errorf("update remote ref %s: %w", dst, err)
		}
	}
	return nil
}

// updateTrackingRefs points refs/remotes/origin/<branch> at the remote's
// current branch tips.
func (r *InProcessRemote) updateTrackingRefs(repo *git.Repository) error {
	refs, err := r.Remote.Underlying().References()
	if err != nil {
		return fmt.Errorf("list remote refs: %w", err)
	}
	defer refs.Close()

	return refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsBranch() {
			return nil
		}
		tracking := plumbing.NewRemoteReferenceName(git.DefaultRemoteName, ref.Name().Short())
		return repo.Underlying().Storer.SetReference(plumbing.NewHashReference(tracking, ref.Hash()))
	})
}

func (r *InProcessRemote) branchTip(branch string) (plumbing.Hash, error) {
	ref, err := r.Remote.Underlying().Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("remote branch %s: %w", branch, err)
	}
	return ref.Hash(), nil
}

// copyObjects copies every encoded object from src to dst. Copying an object
// the destination already has is harmless, so no reachability filtering is
// attempted.
func copyObjects(src, dst storage.Storer) error {
	iter, err := src.IterEncodedObjects(plumbing.AnyObject)
	if err != nil {
		return fmt.Errorf("iterate objects: %w", err)
	}
	defer iter.Close()

	return iter.ForEach(func(obj plumbing.EncodedObject) error {
		_, err := dst.SetEncodedObject(obj)
		return err
	})
}
