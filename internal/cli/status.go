package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jackmusick/gitsync/git"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the workspace status",
	Long:  `Show pending changes, conflicts, and how far the workspace is ahead of or behind the remote.`,
	Run:   runStatus,
}

var statusFetch bool

func init() {
	statusCmd.Flags().BoolVar(&statusFetch, "fetch", false, "Refresh remote refs before computing ahead/behind")
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initContext()

	st, err := c.Syncer.Status(context.Background(), git.StatusOptions{Fetch: statusFetch})
	if err != nil {
		exitError("failed to compute status: %v", err)
	}

	if !st.Initialized {
		fmt.Println("Workspace is not initialized (run 'gitsync init')")
		return
	}

	if st.Detached {
		fmt.Println("HEAD is detached")
	} else {
		fmt.Printf("On branch %s\n", st.Branch)
	}

	if st.RemoteConfigured && !st.Detached {
		fmt.Printf("Ahead %d, behind %d\n", st.Ahead, st.Behind)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if st.Merging {
		if st.MergeReady {
			fmt.Println("\nAll conflicts resolved; run 'gitsync commit' to conclude the merge")
		} else {
			fmt.Println("\nUnresolved conflicts:")
			cyan.Println("  (edit each file, then use \"gitsync resolve <path>\", or \"gitsync abort\")")
			for _, conflict := range st.Conflicts {
				red.Printf("        both modified: %s\n", conflict.Path)
			}
		}
	}

	if len(st.Changes) == 0 && !st.Merging {
		fmt.Println("\nNothing to commit, workspace clean")
		return
	}

	if len(st.Changes) > 0 {
		fmt.Println("\nPending changes:")
		cyan.Println("  (use \"gitsync commit -m <message>\" to record them)")
		fmt.Println()

		for _, change := range st.Changes {
			switch change.Kind {
			case git.ChangeAdded, git.ChangeUntracked:
				green.Printf("        new:      %s\n", change.Path)
			case git.ChangeModified:
				yellow.Printf("        modified: %s\n", change.Path)
			case git.ChangeDeleted:
				red.Printf("        deleted:  %s\n", change.Path)
			}
		}
	}
}
