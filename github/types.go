package github

import "time"

// RepositoryData contains repository information from the provider.
type RepositoryData struct {
	// Identification
	ID       int64  `json:"id"`
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`

	// Metadata
	Description   string `json:"description"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	Archived      bool   `json:"archived"`

	// URLs
	CloneURL string `json:"clone_url"`
	SSHURL   string `json:"ssh_url"`
	HTMLURL  string `json:"html_url"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchData contains branch information from the provider.
type BranchData struct {
	// Name is the branch name.
	Name string `json:"name"`

	// SHA is the commit id the branch points at.
	SHA string `json:"sha"`

	// Protected reports whether branch protection is enabled.
	Protected bool `json:"protected"`
}

// ListOptions contains options for list operations.
type ListOptions struct {
	// Page is the page number for pagination (1-indexed)
	Page int

	// PerPage is the number of items per page
	PerPage int
}

// CreateRepositoryOptions contains options for creating a repository.
type CreateRepositoryOptions struct {
	// Name is the repository name (required)
	Name string

	// Description is the repository description
	Description string

	// Private indicates whether the repository should be private
	Private bool

	// AutoInit indicates whether to initialize with README
	AutoInit bool
}
