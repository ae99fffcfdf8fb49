// Package cli implements the gitsync command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackmusick/gitsync/git"
	"github.com/jackmusick/gitsync/github"
	"github.com/jackmusick/gitsync/github/providers/sdk"
	"github.com/jackmusick/gitsync/internal/config"
)

// cmdContext holds common resources for CLI commands.
type cmdContext struct {
	Config *config.Config
	Syncer *git.Syncer
}

// initContext loads the workspace config and builds a syncer from it.
func initContext() *cmdContext {
	cfg, err := config.Load("")
	if err != nil {
		exitError("%v", err)
	}

	syncer, err := newSyncer(cfg)
	if err != nil {
		exitError("%v", err)
	}

	return &cmdContext{Config: cfg, Syncer: syncer}
}

func newSyncer(cfg *config.Config) (*git.Syncer, error) {
	opts := []git.SyncerOption{
		git.WithRemote(cfg.RemoteURL, cfg.Branch),
		git.WithAuthor(cfg.AuthorName, cfg.AuthorEmail),
		git.WithProgressSink(git.ProgressFunc(printProgress)),
		git.WithIgnoredEntries(config.GitsyncDir),
	}
	if token := cfg.Token(); token != "" {
		opts = append(opts, git.WithToken(token))
	}
	return git.NewSyncer(cfg.WorkspacePath(), opts...)
}

// githubClient builds a directory client from the workspace config.
func (c *cmdContext) githubClient() *github.Client {
	token := c.Config.Token()
	if token == "" {
		exitError("no GitHub token available: set %s", config.DefaultTokenEnv)
	}

	provider, err := sdk.NewProvider(sdk.WithToken(token))
	if err != nil {
		exitError("failed to create GitHub provider: %v", err)
	}

	owner := c.Config.Owner
	if owner == "" {
		exitError("owner is not set in the workspace config")
	}
	return github.NewClient(provider, owner)
}

var rootCmd = &cobra.Command{
	Use:   "gitsync",
	Short: "GitHub workspace synchronization",
	Long: `gitsync keeps a local workspace in sync with a GitHub repository
without requiring a git installation. It clones, pulls, pushes and
commits through an embedded git implementation, and surfaces merge
conflicts for per-file resolution.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(abortCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(branchesCmd)
}

// exitError prints an error and exits.
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func printProgress(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// shortID returns the first 8 characters of a commit id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
