package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Mark a conflicted file as resolved",
	Long: `Mark a conflicted file as resolved using its current workspace
content. Edit the file to the desired final content first.`,
	Args: cobra.ExactArgs(1),
	Run:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) {
	c := initContext()

	remaining, err := c.Syncer.ResolveConflict(args[0])
	if err != nil {
		exitError("failed to resolve %s: %v", args[0], err)
	}

	if remaining == 0 {
		fmt.Println("All conflicts resolved; run 'gitsync commit' to conclude the merge")
		return
	}
	fmt.Printf("Resolved %s (%d conflict(s) remaining)\n", args[0], remaining)
}
