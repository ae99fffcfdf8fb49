package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var branchesCmd = &cobra.Command{
	Use:   "branches <repo>",
	Short: "List the branches of a repository",
	Args:  cobra.ExactArgs(1),
	Run:   runBranches,
}

func runBranches(cmd *cobra.Command, args []string) {
	c := initContext()
	client := c.githubClient()

	branches, err := client.Repository(args[0]).ListBranches(context.Background())
	if err != nil {
		exitError("failed to list branches: %v", err)
	}

	if len(branches) == 0 {
		fmt.Println("No branches found")
		return
	}

	yellow := color.New(color.FgYellow)
	for _, branch := range branches {
		fmt.Printf("%s  ", branch.Name)
		yellow.Printf("%s", shortID(branch.SHA))
		if branch.Protected {
			fmt.Print("  (protected)")
		}
		fmt.Println()
	}
}
