package github

import "context"

// Provider defines the interface for interacting with the GitHub directory.
// The production implementation is providers/sdk (using go-github); tests
// substitute in-memory fakes.
//
// All methods accept a context.Context for cancellation and timeout control
// and return structured data types independent of the underlying
// implementation. Errors carry platform error codes (see WrapHTTPError).
type Provider interface {
	// GetRepository retrieves repository information.
	// Returns a NOT_FOUND error if the repository doesn't exist.
	GetRepository(ctx context.Context, owner, repo string) (*RepositoryData, error)

	// ListRepositories lists one page of repositories for the given owner.
	// For organizations, this lists organization repositories; for users,
	// user repositories. Returns an empty slice when the page is past the
	// end.
	ListRepositories(ctx context.Context, owner string, opts ListOptions) ([]*RepositoryData, error)

	// CreateRepository creates a new repository under an organization or,
	// when the owner is the authenticated user, under that user.
	// Returns a CONFLICT error if a repository with the same name exists.
	CreateRepository(ctx context.Context, owner string, opts CreateRepositoryOptions) (*RepositoryData, error)

	// ListBranches lists one page of branches for a repository.
	ListBranches(ctx context.Context, owner, repo string, opts ListOptions) ([]*BranchData, error)
}
