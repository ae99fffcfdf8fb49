// Package sdk provides a GitHub provider implementation using the go-github
// SDK.
//
// This package implements the github.Provider interface by wrapping the
// github.com/google/go-github/v67 SDK, covering the repository-directory
// operations: get, list and create repositories, and list branches.
package sdk

import (
	"context"
	"net/http"

	"github.com/google/go-github/v67/github"

	"github.com/jackmusick/gitsync/errors"
	gh "github.com/jackmusick/gitsync/github"
)

// Provider implements github.Provider using the go-github SDK.
type Provider struct {
	client *github.Client
}

// NewProvider creates a provider using the GitHub SDK.
//
// Example with token authentication:
//
//	provider, err := sdk.NewProvider(sdk.WithToken("ghp_..."))
//
// Example with custom client:
//
//	httpClient := &http.Client{Timeout: 30 * time.Second}
//	ghClient := github.NewClient(httpClient)
//	provider, err := sdk.NewProvider(sdk.WithClient(ghClient))
func NewProvider(opts ...Option) (*Provider, error) {
	cfg := &config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.client == nil {
		if cfg.token == "" {
			err := errors.New(errors.CodeInvalidInput, "either token or client must be provided")
			return nil, errors.WithContext(err, "field", "token or client")
		}
		cfg.client = github.NewClient(nil).WithAuthToken(cfg.token)
	}

	return &Provider{
		client: cfg.client,
	}, nil
}

// config holds configuration for Provider.
type config struct {
	client *github.Client
	token  string
}

// Option configures the SDK provider.
type Option func(*config) error

// WithToken sets the authentication token for the SDK provider.
func WithToken(token string) Option {
	return func(cfg *config) error {
		if token == "" {
			err := errors.New(errors.CodeInvalidInput, "token cannot be empty")
			return errors.WithContext(err, "field", "token")
		}
		cfg.token = token
		return nil
	}
}

// WithClient sets a custom GitHub client for the SDK provider.
// This allows full control over the HTTP client configuration,
// authentication, and other advanced settings.
func WithClient(client *github.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			err := errors.New(errors.CodeInvalidInput, "client cannot be nil")
			return errors.WithContext(err, "field", "client")
		}
		cfg.client = client
		return nil
	}
}

// GetRepository retrieves repository information.
func (p *Provider) GetRepository(ctx context.Context, owner, repo string) (*gh.RepositoryData, error) {
	ghRepo, resp, err := p.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, p.wrapError(err, resp, "failed to get repository")
	}

	return p.convertRepository(ghRepo), nil
}

// ListRepositories lists one page of repositories for the given owner.
// The owner is tried as an organization first, then as a user.
func (p *Provider) ListRepositories(ctx context.Context, owner string, opts gh.ListOptions) ([]*gh.RepositoryData, error) {
	listOpts := github.ListOptions{
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}

	orgOpts := &github.RepositoryListByOrgOptions{
		ListOptions: listOpts,
	}
	repos, resp, err := p.client.Repositories.ListByOrg(ctx, owner, orgOpts)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			userOpts := &github.RepositoryListByUserOptions{
				ListOptions: listOpts,
			}
			repos, resp, err = p.client.Repositories.ListByUser(ctx, owner, userOpts)
			if err != nil {
				return nil, p.wrapError(err, resp, "failed to list repositories")
			}
		} else {
			return nil, p.wrapError(err, resp, "failed to list repositories")
		}
	}

	result := make([]*gh.RepositoryData, len(repos))
	for i, repo := range repos {
		result[i] = p.convertRepository(repo)
	}

	return result, nil
}

// CreateRepository creates a new repository. The owner is tried as an
// organization first; when GitHub rejects that, the repository is created
// under the authenticated user instead.
func (p *Provider) CreateRepository(ctx context.Context, owner string, opts gh.CreateRepositoryOptions) (*gh.RepositoryData, error) {
	ghRepo := &github.Repository{
		Name:        github.String(opts.Name),
		Description: github.String(opts.Description),
		Private:     github.Bool(opts.Private),
		AutoInit:    github.Bool(opts.AutoInit),
	}

	repo, resp, err := p.client.Repositories.Create(ctx, owner, ghRepo)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil &&
			(ghErr.Response.StatusCode == http.StatusNotFound || ghErr.Response.StatusCode == http.StatusUnprocessableEntity) {
			repo, resp, err = p.client.Repositories.Create(ctx, "", ghRepo)
			if err != nil {
				return nil, p.wrapError(err, resp, "failed to create repository")
			}
		} else {
			return nil, p.wrapError(err, resp, "failed to create repository")
		}
	}

	return p.convertRepository(repo), nil
}

// ListBranches lists one page of branches for a repository.
func (p *Provider) ListBranches(ctx context.Context, owner, repo string, opts gh.ListOptions) ([]*gh.BranchData, error) {
	branchOpts := &github.BranchListOptions{
		ListOptions: github.ListOptions{
			Page:    opts.Page,
			PerPage: opts.PerPage,
		},
	}

	branches, resp, err := p.client.Repositories.ListBranches(ctx, owner, repo, branchOpts)
	if err != nil {
		return nil, p.wrapError(err, resp, "failed to list branches")
	}

	result := make([]*gh.BranchData, len(branches))
	for i, branch := range branches {
		result[i] = p.convertBranch(branch)
	}

	return result, nil
}

// convertRepository converts a go-github Repository to RepositoryData.
func (p *Provider) convertRepository(repo *github.Repository) *gh.RepositoryData {
	if repo == nil {
		return nil
	}

	data := &gh.RepositoryData{
		ID:            repo.GetID(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		DefaultBranch: repo.GetDefaultBranch(),
		Private:       repo.GetPrivate(),
		Fork:          repo.GetFork(),
		Archived:      repo.GetArchived(),
		CloneURL:      repo.GetCloneURL(),
		SSHURL:        repo.GetSSHURL(),
		HTMLURL:       repo.GetHTMLURL(),
	}

	if owner := repo.GetOwner(); owner != nil {
		data.Owner = owner.GetLogin()
	}

	if createdAt := repo.GetCreatedAt(); !createdAt.IsZero() {
		data.CreatedAt = createdAt.Time
	}
	if updatedAt := repo.GetUpdatedAt(); !updatedAt.IsZero() {
		data.UpdatedAt = updatedAt.Time
	}

	return data
}

// convertBranch converts a go-github Branch to BranchData.
func (p *Provider) convertBranch(branch *github.Branch) *gh.BranchData {
	if branch == nil {
		return nil
	}

	data := &gh.BranchData{
		Name:      branch.GetName(),
		Protected: branch.GetProtected(),
	}
	if commit := branch.GetCommit(); commit != nil {
		data.SHA = commit.GetSHA()
	}
	return data
}

// wrapError wraps go-github errors with appropriate error codes.
func (p *Provider) wrapError(err error, resp *github.Response, message string) error {
	if err == nil {
		return nil
	}

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		statusCode = ghErr.Response.StatusCode
	}

	if statusCode != 0 {
		return gh.WrapHTTPError(err, statusCode, message)
	}

	return errors.Wrap(err, errors.CodeNetwork, message)
}
