package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var abortCmd = &cobra.Command{
	Use:   "abort",
	Short: "Abort an in-progress merge",
	Long:  `Abort the in-progress merge and restore the workspace to its pre-merge state.`,
	Run:   runAbort,
}

func runAbort(cmd *cobra.Command, args []string) {
	c := initContext()

	if err := c.Syncer.AbortMerge(); err != nil {
		exitError("failed to abort merge: %v", err)
	}
	fmt.Println("Merge aborted; workspace restored")
}
