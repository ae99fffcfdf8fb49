package git

import (
	"errors"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// RepositoryOption configures repository creation operations (Init, Open).
type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	fs billy.Filesystem
}

// WithFilesystem sets the billy filesystem to use for repository operations.
// If not provided, the OS filesystem is used and the repository path is
// resolved against it. The path given to Init/Open is always interpreted
// relative to this filesystem's root.
//
// Example:
//
//	repo, err := git.Init("/", git.WithFilesystem(memfs.New()))
func WithFilesystem(fs billy.Filesystem) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.fs = fs
	}
}

// Init creates a new non-bare Git repository at the specified path.
//
// The object store is placed in a .git subdirectory and the working tree is
// rooted at the path itself. Returns ErrAlreadyExists (as a platform error)
// if a repository already exists at the path.
func Init(path string, opts ...RepositoryOption) (*Repository, error) {
	options := &repositoryOptions{
		fs: osfs.New("/"),
	}
	for _, opt := range opts {
		opt(options)
	}

	fs := options.fs
	if err := fs.MkdirAll(path, 0o755); err != nil {
		return nil, wrapError(err, "failed to create repository directory")
	}

	scopedFs, err := fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}

	dotGitFs, err := scopedFs.Chroot(gogit.GitDirName)
	if err != nil {
		return nil, wrapError(err, "failed to create .git filesystem")
	}

	storage := filesystem.NewStorage(dotGitFs, cache.NewObjectLRUDefault())

	repo, err := gogit.Init(storage, scopedFs)
	if err != nil {
		return nil, wrapError(err, "failed to initialize repository")
	}

	return &Repository{
		path:   path,
		repo:   repo,
		fs:     scopedFs,
		dotgit: dotGitFs,
	}, nil
}

// Open opens an existing non-bare Git repository at the specified path.
//
// Returns a NOT_FOUND platform error if no repository exists at the path.
func Open(path string, opts ...RepositoryOption) (*Repository, error) {
	options := &repositoryOptions{
		fs: osfs.New("/"),
	}
	for _, opt := range opts {
		opt(options)
	}

	scopedFs, err := options.fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}

	dotGitStat, dotGitErr := scopedFs.Stat(gogit.GitDirName)
	if dotGitErr != nil || !dotGitStat.IsDir() {
		return nil, wrapError(gogit.ErrRepositoryNotExists, "no repository at "+path)
	}

	dotGitFs, err := scopedFs.Chroot(gogit.GitDirName)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to .git")
	}

	storage := filesystem.NewStorage(dotGitFs, cache.NewObjectLRUDefault())

	repo, err := gogit.Open(storage, scopedFs)
	if err != nil {
		return nil, wrapError(err, "failed to open repository")
	}

	return &Repository{
		path:   path,
		repo:   repo,
		fs:     scopedFs,
		dotgit: dotGitFs,
	}, nil
}

// Underlying returns the underlying go-git Repository for advanced operations
// not covered by this wrapper.
func (r *Repository) Underlying() *gogit.Repository {
	return r.repo
}

// Filesystem returns the billy.Filesystem scoped to the working tree.
func (r *Repository) Filesystem() billy.Filesystem {
	return r.fs
}

// Path returns the workspace path this repository was opened at.
func (r *Repository) Path() string {
	return r.path
}

// CurrentBranch resolves the branch HEAD points at. A detached HEAD is not an
// error: it returns an empty branch name and detached=true, which disables
// branch-relative operations for the caller.
func (r *Repository) CurrentBranch() (branch string, detached bool, err error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", false, wrapError(err, "failed to resolve HEAD")
	}
	if !head.Name().IsBranch() {
		return "", true, nil
	}
	return head.Name().Short(), false, nil
}

// Head returns the commit HEAD currently points at.
func (r *Repository) Head() (*object.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, wrapError(err, "failed to resolve HEAD")
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, wrapError(err, "failed to load HEAD commit")
	}
	return commit, nil
}

// remoteTrackingHash resolves refs/remotes/<remote>/<branch>. The boolean is
// false when no remote-tracking ref exists yet (nothing fetched or pushed).
func (r *Repository) remoteTrackingHash(remote, branch string) (plumbing.Hash, bool, error) {
	refName := plumbing.NewRemoteReferenceName(remote, branch)
	ref, err := r.repo.Reference(refName, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, false, nil
	}
	if err != nil {
		return plumbing.ZeroHash, false, wrapError(err, "failed to resolve remote-tracking ref")
	}
	return ref.Hash(), true, nil
}

// setRemoteTracking points refs/remotes/<remote>/<branch> at the given commit.
// Only fetch, push and fast-forward logic may call this.
func (r *Repository) setRemoteTracking(remote, branch string, hash plumbing.Hash) error {
	refName := plumbing.NewRemoteReferenceName(remote, branch)
	ref := plumbing.NewHashReference(refName, hash)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return wrapError(err, "failed to update remote-tracking ref")
	}
	return nil
}

// writeBlob stores content as a blob object and returns its hash.
func (r *Repository) writeBlob(content []byte) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, wrapError(err, "failed to open blob writer")
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, wrapError(err, "failed to write blob content")
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, wrapError(err, "failed to finalize blob")
	}

	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, wrapError(err, "failed to store blob")
	}
	return hash, nil
}

// readBlob returns the full content of a blob object.
func (r *Repository) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := r.repo.BlobObject(hash)
	if err != nil {
		return nil, wrapError(err, "failed to load blob "+hash.String())
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, wrapError(err, "failed to open blob "+hash.String())
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, wrapError(err, "failed to read blob "+hash.String())
	}
	return content, nil
}

// readWorkingFile returns the content of a working-tree file.
func (r *Repository) readWorkingFile(path string) ([]byte, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// writeWorkingFile writes content to a working-tree file, creating parent
// directories as needed.
func (r *Repository) writeWorkingFile(path string, content []byte) error {
	if dir := dirOf(path); dir != "" {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := r.fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// dirOf returns the slash-separated parent of a repository-relative path, or
// "" for a top-level entry.
func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}
