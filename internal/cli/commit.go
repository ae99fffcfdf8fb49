package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit pending workspace changes",
	Long: `Record all pending workspace changes as a commit. When a merge is
in progress and every conflict has been resolved, this concludes the
merge with a two-parent commit.`,
	Run: runCommit,
}

var commitMessage string

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")
}

func runCommit(cmd *cobra.Command, args []string) {
	c := initContext()

	result, err := c.Syncer.Commit(commitMessage)
	if err != nil {
		exitError("commit failed: %v", err)
	}

	fmt.Printf("[%s] %s\n", shortID(result.CommitID), commitMessage)
	fmt.Printf("%d file(s) committed\n", result.FilesCommitted)
}
