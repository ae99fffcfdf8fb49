package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull remote changes into the workspace",
	Long: `Fetch the remote branch and merge it into the workspace.
When both sides changed the same file, the files are left with conflict
markers for resolution with 'gitsync resolve'.`,
	Run: runPull,
}

func runPull(cmd *cobra.Command, args []string) {
	c := initContext()

	result, err := c.Syncer.Pull(context.Background())
	if err != nil {
		exitError("pull failed: %v", err)
	}

	if !result.Success {
		red := color.New(color.FgRed)
		fmt.Println("Pull stopped on conflicts:")
		for _, conflict := range result.Conflicts {
			red.Printf("        %s\n", conflict.Path)
		}
		fmt.Println("\nEdit each file, then run 'gitsync resolve <path>' and 'gitsync commit',")
		fmt.Println("or run 'gitsync abort' to discard the merge.")
		os.Exit(1)
	}

	if len(result.UpdatedFiles) == 0 {
		fmt.Println("Already up to date")
		return
	}

	for _, path := range result.UpdatedFiles {
		fmt.Printf("        updated: %s\n", path)
	}
	fmt.Printf("%d file(s) updated\n", len(result.UpdatedFiles))
}
