package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jackmusick/gitsync/github"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Work with the owner's GitHub repositories",
}

var reposListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the owner's repositories",
	Run:   runReposList,
}

var reposCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a repository under the owner",
	Args:  cobra.ExactArgs(1),
	Run:   runReposCreate,
}

var (
	createDescription string
	createPrivate     bool
)

func init() {
	reposCreateCmd.Flags().StringVar(&createDescription, "description", "", "Repository description")
	reposCreateCmd.Flags().BoolVar(&createPrivate, "private", false, "Create a private repository")

	reposCmd.AddCommand(reposListCmd)
	reposCmd.AddCommand(reposCreateCmd)
}

func runReposList(cmd *cobra.Command, args []string) {
	c := initContext()
	client := c.githubClient()

	repos, err := client.ListRepositories(context.Background())
	if err != nil {
		exitError("failed to list repositories: %v", err)
	}

	if len(repos) == 0 {
		fmt.Println("No repositories found")
		return
	}

	cyan := color.New(color.FgCyan)
	for _, repo := range repos {
		cyan.Printf("%s", repo.FullName)
		if repo.Private {
			fmt.Print(" (private)")
		}
		if repo.Archived {
			fmt.Print(" (archived)")
		}
		fmt.Println()
	}
}

func runReposCreate(cmd *cobra.Command, args []string) {
	c := initContext()
	client := c.githubClient()

	repo, err := client.CreateRepository(context.Background(), github.CreateRepositoryOptions{
		Name:        args[0],
		Description: createDescription,
		Private:     createPrivate,
		AutoInit:    true,
	})
	if err != nil {
		exitError("failed to create repository: %v", err)
	}

	fmt.Printf("Created %s\n", repo.FullName)
	if repo.HTMLURL != "" {
		fmt.Println(repo.HTMLURL)
	}
}
