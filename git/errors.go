package git

import (
	"errors"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	platformerrors "github.com/jackmusick/gitsync/errors"
)

// wrapError wraps an error with context, classifying it as a platform error type.
// It preserves the original error chain for errors.Is/errors.As compatibility.
// If err is nil, returns nil.
func wrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	classified := classifyError(err)

	return fmt.Errorf("%s: %w", context, classified)
}

// classifyError maps go-git and filesystem errors to platform error types.
// It uses errors.Is() to match error values and returns the appropriate
// platform error code. Unknown errors are passed through unchanged to
// preserve their original information.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	// Repository/reference not found errors → NOT_FOUND
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return platformerrors.New(platformerrors.CodeNotFound, "repository does not exist")
	}
	if errors.Is(err, transport.ErrRepositoryNotFound) {
		return platformerrors.New(platformerrors.CodeNotFound, "remote repository not found")
	}
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return platformerrors.New(platformerrors.CodeNotFound, "reference not found")
	}
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		// A referenced object missing from the store is an invariant
		// violation, not a user error.
		return platformerrors.New(platformerrors.CodeInternal, "object missing from store")
	}

	if errors.Is(err, gogit.ErrRepositoryAlreadyExists) {
		return platformerrors.New(platformerrors.CodeAlreadyExists, "repository already exists")
	}
	if errors.Is(err, gogit.ErrRemoteNotFound) {
		return platformerrors.New(platformerrors.CodeNotFound, "remote not found")
	}
	if errors.Is(err, gogit.ErrRemoteExists) {
		return platformerrors.New(platformerrors.CodeAlreadyExists, "remote already exists")
	}

	// Authentication/Authorization errors → UNAUTHORIZED
	if errors.Is(err, transport.ErrAuthenticationRequired) {
		return platformerrors.New(platformerrors.CodeUnauthorized, "authentication required")
	}
	if errors.Is(err, transport.ErrAuthorizationFailed) {
		return platformerrors.New(platformerrors.CodeUnauthorized, "authorization failed")
	}

	if errors.Is(err, gogit.ErrWorktreeNotClean) {
		return platformerrors.New(platformerrors.CodeConflict, "worktree is not clean")
	}
	if errors.Is(err, gogit.ErrEmptyCommit) {
		return platformerrors.New(platformerrors.CodeConflict, "nothing to commit: working tree is clean")
	}

	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return platformerrors.New(platformerrors.CodeNotFound, "remote repository is empty")
	}
	if errors.Is(err, gogit.ErrMissingURL) {
		return platformerrors.New(platformerrors.CodeInvalidInput, "URL is required")
	}

	// Mount anomalies → FILESYSTEM_ERROR (retryable by default)
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
		return platformerrors.Wrap(err, platformerrors.CodeFilesystem, "filesystem operation failed")
	}

	// Pass through unknown errors unchanged to preserve original information.
	return err
}
