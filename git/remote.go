package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// DefaultRemoteName is the remote every sync operation targets.
const DefaultRemoteName = "origin"

// RemoteOperations defines the interface for Git remote network operations.
// This interface allows for testing by enabling implementations that don't
// require actual network access (see testutil.InProcessRemote).
//
// The default implementation delegates to go-git's network operations.
type RemoteOperations interface {
	// Clone clones a remote repository into a local directory. The directory
	// is expected to be a local-disk staging area, not the network mount.
	Clone(ctx context.Context, path string, opts CloneOptions) (*Repository, error)

	// Fetch downloads objects and refs from the remote repository, updating
	// remote-tracking refs. Callers must hold the fetch lock.
	Fetch(ctx context.Context, repo *Repository, opts FetchOptions) error

	// Push uploads objects and refs to the remote repository.
	Push(ctx context.Context, repo *Repository, opts PushOptions) error
}

// defaultRemoteOps is the default implementation of RemoteOperations that
// uses go-git's network operations to interact with remote repositories.
type defaultRemoteOps struct{}

// Clone implements RemoteOperations.Clone using go-git's PlainClone.
func (d *defaultRemoteOps) Clone(ctx context.Context, path string, opts CloneOptions) (*Repository, error) {
	cloneOpts := &gogit.CloneOptions{
		URL: opts.URL,
	}

	if opts.Auth != nil {
		auth, ok := opts.Auth.(transport.AuthMethod)
		if !ok {
			return nil, wrapError(fmt.Errorf("invalid auth type %T", opts.Auth), "failed to convert auth")
		}
		cloneOpts.Auth = auth
	}
	if opts.ReferenceName != "" {
		cloneOpts.ReferenceName = opts.ReferenceName
	}

	if _, err := gogit.PlainCloneContext(ctx, path, false, cloneOpts); err != nil {
		return nil, wrapError(err, "failed to clone repository")
	}

	// Reopen through the wrapper so the repository carries the scoped
	// filesystems the rest of the engine expects.
	return Open(path)
}

// Fetch implements RemoteOperations.Fetch using go-git's Fetch.
func (d *defaultRemoteOps) Fetch(ctx context.Context, repo *Repository, opts FetchOptions) error {
	remoteName := opts.RemoteName
	if remoteName == "" {
		remoteName = DefaultRemoteName
	}

	fetchOpts := &gogit.FetchOptions{
		RemoteName: remoteName,
		RefSpecs: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", remoteName)),
		},
	}

	if opts.Auth != nil {
		auth, ok := opts.Auth.(transport.AuthMethod)
		if !ok {
			return wrapError(fmt.Errorf("invalid auth type %T", opts.Auth), "failed to convert auth")
		}
		fetchOpts.Auth = auth
	}

	err := repo.repo.FetchContext(ctx, fetchOpts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapError(err, "failed to fetch from remote")
	}

	return nil
}

// Push implements RemoteOperations.Push using go-git's Push.
func (d *defaultRemoteOps) Push(ctx context.Context, repo *Repository, opts PushOptions) error {
	remoteName := opts.RemoteName
	if remoteName == "" {
		remoteName = DefaultRemoteName
	}

	pushOpts := &gogit.PushOptions{
		RemoteName: remoteName,
	}

	if opts.Auth != nil {
		auth, ok := opts.Auth.(transport.AuthMethod)
		if !ok {
			return wrapError(fmt.Errorf("invalid auth type %T", opts.Auth), "failed to convert auth")
		}
		pushOpts.Auth = auth
	}

	for _, refSpec := range opts.RefSpecs {
		pushOpts.RefSpecs = append(pushOpts.RefSpecs, config.RefSpec(refSpec))
	}

	err := repo.repo.PushContext(ctx, pushOpts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapError(err, "failed to push to remote")
	}

	return nil
}

// setOriginURL points the origin remote at url, creating or replacing the
// remote configuration as needed.
func (r *Repository) setOriginURL(url string) error {
	remoteName := DefaultRemoteName

	if _, err := r.repo.Remote(remoteName); err == nil {
		if err := r.repo.DeleteRemote(remoteName); err != nil {
			return wrapError(err, "failed to replace origin remote")
		}
	}

	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: remoteName,
		URLs: []string{url},
		Fetch: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", remoteName)),
		},
	})
	if err != nil {
		return wrapError(err, "failed to configure origin remote")
	}
	return nil
}

// originURL returns the configured origin URL, or "" if no origin exists.
func (r *Repository) originURL() string {
	remote, err := r.repo.Remote(DefaultRemoteName)
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
