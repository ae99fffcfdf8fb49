// Package github provides the remote repository directory: discovery and
// setup operations against the GitHub REST API, independent of the local
// object store.
//
// The directory covers three operations: listing the repositories an owner
// can sync with (bounded and paginated), listing a repository's branches,
// and creating a new repository under a user or organization.
//
// # Architecture
//
// The Provider interface abstracts the underlying API implementation; the
// SDK-backed provider in providers/sdk wraps google/go-github. The Client
// adds owner defaulting and the bounded list semantics on top.
//
//	provider, err := sdk.NewProvider(sdk.WithToken("ghp_..."))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := github.NewClient(provider, "myorg")
//
//	repos, err := client.ListRepositories(ctx)
//	branches, err := client.Repository("myrepo").ListBranches(ctx)
//
// # Error Handling
//
// All errors are wrapped as platform errors with codes derived from the
// HTTP status (NOT_FOUND, UNAUTHORIZED, FORBIDDEN, RATE_LIMIT, ...), so
// callers branch on errors.GetCode rather than status codes.
package github
