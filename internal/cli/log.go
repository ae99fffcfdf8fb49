package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jackmusick/gitsync/git"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit history",
	Long:  `Display the commit history of the synced branch, newest first.`,
	Run:   runLog,
}

var (
	logOneline bool
	logLimit   int
	logOffset  int
)

func init() {
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "Show each commit on a single line")
	logCmd.Flags().IntVarP(&logLimit, "n", "n", git.DefaultHistoryLimit, "Limit the number of commits to show")
	logCmd.Flags().IntVar(&logOffset, "skip", 0, "Skip this many commits before showing history")
}

func runLog(cmd *cobra.Command, args []string) {
	c := initContext()

	commits, err := c.Syncer.History(logOffset, logLimit)
	if err != nil {
		exitError("failed to read history: %v", err)
	}

	if len(commits) == 0 {
		fmt.Println("No commits yet")
		return
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, commit := range commits {
		if logOneline {
			yellow.Printf("%s ", shortID(commit.Hash))
			if !commit.Pushed {
				cyan.Print("(unpushed) ")
			}
			fmt.Println(commit.Message)
			continue
		}

		yellow.Printf("commit %s", commit.Hash)
		if !commit.Pushed {
			cyan.Print(" (unpushed)")
		}
		fmt.Println()
		fmt.Printf("Author: %s <%s>\n", commit.Author, commit.Email)
		fmt.Printf("Date:   %s\n", commit.Timestamp.Format("Mon Jan 2 15:04:05 2006"))
		fmt.Printf("\n    %s\n\n", commit.Message)
	}
}
