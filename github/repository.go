package github

import (
	"context"
	"fmt"
)

// Repository represents a GitHub repository and provides repository-scoped
// directory operations.
//
// Instances are created through a Client:
//
//	client := github.NewClient(provider, "myorg")
//	repo := client.Repository("myrepo")
//
// Call Get to fetch the repository data before reading its properties:
//
//	if err := repo.Get(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Default branch:", repo.DefaultBranch())
type Repository struct {
	client *Client
	owner  string
	name   string
	data   *RepositoryData
}

// Get fetches the repository data from GitHub.
// Returns a NOT_FOUND error if the repository doesn't exist.
func (r *Repository) Get(ctx context.Context) error {
	data, err := r.client.provider.GetRepository(ctx, r.owner, r.name)
	if err != nil {
		return err
	}
	r.data = data
	return nil
}

// ListBranches lists the repository's branches, walking the paginated API.
func (r *Repository) ListBranches(ctx context.Context) ([]*BranchData, error) {
	var all []*BranchData

	for page := 1; ; page++ {
		batch, err := r.client.provider.ListBranches(ctx, r.owner, r.name, ListOptions{
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
	return all, nil
}

// Owner returns the repository owner (organization or username).
func (r *Repository) Owner() string {
	return r.owner
}

// Name returns the repository name (without owner).
func (r *Repository) Name() string {
	return r.name
}

// FullName returns the full repository name (owner/name).
// If repository data has been fetched, returns the data's full name.
func (r *Repository) FullName() string {
	if r.data != nil {
		return r.data.FullName
	}
	return fmt.Sprintf("%s/%s", r.owner, r.name)
}

// DefaultBranch returns the default branch name.
// Returns empty string if repository data hasn't been fetched yet.
func (r *Repository) DefaultBranch() string {
	if r.data == nil {
		return ""
	}
	return r.data.DefaultBranch
}

// CloneURL returns the HTTPS clone URL.
// Returns empty string if repository data hasn't been fetched yet.
func (r *Repository) CloneURL() string {
	if r.data == nil {
		return ""
	}
	return r.data.CloneURL
}

// IsPrivate returns true if the repository is private.
// Returns false if repository data hasn't been fetched yet.
func (r *Repository) IsPrivate() bool {
	if r.data == nil {
		return false
	}
	return r.data.Private
}

// Data returns the underlying repository data, or nil if it hasn't been
// fetched yet.
func (r *Repository) Data() *RepositoryData {
	return r.data
}
