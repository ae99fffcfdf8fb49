// Package testutil provides in-memory testing utilities for the git package.
// It includes helpers for creating in-memory repositories with committed
// content and an in-process RemoteOperations implementation, so sync
// scenarios run without network access or an on-disk remote.
package testutil

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/jackmusick/gitsync/git"
)

// NewMemoryRepo creates a new in-memory Git repository for testing.
// It uses billy's memory filesystem (memfs) to provide a fully functional
// repository without touching the actual filesystem.
//
// The returned filesystem is the repository's working tree root.
//
// Example:
//
//	repo, fs, err := testutil.NewMemoryRepo()
//	if err != nil {
//	    t.Fatal(err)
//	}
func NewMemoryRepo() (*git.Repository, billy.Filesystem, error) {
	fs := memfs.New()

	repo, err := git.Init("/", git.WithFilesystem(fs))
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return nil, nil, err
	}

	return repo, repo.Filesystem(), nil
}

// WriteFile creates or overwrites a file in the given filesystem, creating
// parent directories as needed.
func WriteFile(fs billy.Filesystem, path, content string) error {
	if dir := parentDir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			//nolint:wrapcheck // Test utility - simple file operation error
			return err
		}
	}

	file, err := fs.Create(path)
	if err != nil {
		//nolint:wrapcheck // Test utility - simple file operation error
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	_, err = file.Write([]byte(content))
	//nolint:wrapcheck // Test utility - simple file operation error
	return err
}

// CommitFile writes a file and commits it with the standard test author.
// Returns the hash of the created commit.
//
// Example:
//
//	hash, err := testutil.CommitFile(repo, "README.md", "# Test", "Add README")
func CommitFile(repo *git.Repository, path, content, message string) (string, error) {
	return CommitFiles(repo, map[string]string{path: content}, message)
}

// CommitFiles writes several files and commits them together.
func CommitFiles(repo *git.Repository, files map[string]string, message string) (string, error) {
	wt, err := repo.Underlying().Worktree()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}

	for path, content := range files {
		if err := WriteFile(repo.Filesystem(), path, content); err != nil {
			return "", err
		}
		if _, err := wt.Add(path); err != nil {
			//nolint:wrapcheck // Test utility - errors from go-git are transparent
			return "", err
		}
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  TestAuthor,
			Email: TestEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	return hash.String(), nil
}

// DeleteFile removes a file and commits the deletion.
func DeleteFile(repo *git.Repository, path, message string) (string, error) {
	wt, err := repo.Underlying().Worktree()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	if _, err := wt.Remove(path); err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  TestAuthor,
			Email: TestEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	return hash.String(), nil
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}
