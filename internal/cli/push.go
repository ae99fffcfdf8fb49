package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push local commits to the remote",
	Run:   runPush,
}

func runPush(cmd *cobra.Command, args []string) {
	c := initContext()

	result, err := c.Syncer.Push(context.Background())
	if err != nil {
		exitError("push failed: %v", err)
	}

	if result.CommitsPushed == 0 {
		fmt.Println("Nothing to push")
		return
	}
	fmt.Printf("Pushed %d commit(s)\n", result.CommitsPushed)
}
