package github

import "context"

const (
	// listPageSize is the page size used when walking paginated listings.
	listPageSize = 100

	// maxRepositories bounds ListRepositories. Accounts with more
	// repositories than this get a truncated directory rather than an
	// unbounded API walk.
	maxRepositories = 500
)

// Client provides high-level directory operations against GitHub.
//
// Example usage:
//
//	provider, err := sdk.NewProvider(sdk.WithToken("ghp_..."))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := github.NewClient(provider, "myorg")
//	repos, err := client.ListRepositories(ctx)
type Client struct {
	provider Provider
	owner    string // default owner for operations
}

// NewClient creates a new GitHub client with the specified provider.
// The owner parameter sets a default owner for operations, typically the
// organization or username whose repositories are being synced.
func NewClient(provider Provider, owner string) *Client {
	return &Client{
		provider: provider,
		owner:    owner,
	}
}

// Repository returns a Repository handle for the given repository name.
// The name should not include the owner ("myrepo", not "owner/myrepo").
//
// This method does not validate that the repository exists; call Get on the
// returned handle to fetch its data.
func (c *Client) Repository(name string) *Repository {
	return &Repository{
		client: c,
		owner:  c.owner,
		name:   name,
	}
}

// ListRepositories lists the repositories of the client's owner, walking
// the paginated API at 100 per page, bounded at 500 repositories.
func (c *Client) ListRepositories(ctx context.Context) ([]*RepositoryData, error) {
	var all []*RepositoryData

	for page := 1; len(all) < maxRepositories; page++ {
		batch, err := c.provider.ListRepositories(ctx, c.owner, ListOptions{
			Page:    page,
			PerPage: listPageSize,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < listPageSize {
			break
		}
	}

	if len(all) > maxRepositories {
		all = all[:maxRepositories]
	}
	return all, nil
}

// CreateRepository creates a repository under the client's owner.
func (c *Client) CreateRepository(ctx context.Context, opts CreateRepositoryOptions) (*RepositoryData, error) {
	if opts.Name == "" {
		return nil, newInvalidInputError("name", "repository name is required")
	}
	return c.provider.CreateRepository(ctx, c.owner, opts)
}

// Provider returns the underlying Provider.
// This is an escape hatch for operations not covered by the Client API.
func (c *Client) Provider() Provider {
	return c.provider
}

// Owner returns the default owner for this client.
func (c *Client) Owner() string {
	return c.owner
}
