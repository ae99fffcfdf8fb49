package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackmusick/gitsync/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a synced workspace",
	Long: `Initialize the current directory as a gitsync workspace.
This writes a .gitsync/config.toml and performs the initial clone.
Existing files are moved to a backup directory before cloning.`,
	Run: runInit,
}

var (
	initRemote      string
	initBranch      string
	initOwner       string
	initAuthorName  string
	initAuthorEmail string
)

func init() {
	initCmd.Flags().StringVar(&initRemote, "remote", "", "GitHub repository (owner/repo or full URL)")
	initCmd.Flags().StringVar(&initBranch, "branch", "", "Branch to sync (default: remote default branch)")
	initCmd.Flags().StringVar(&initOwner, "owner", "", "GitHub organization or user for directory commands")
	initCmd.Flags().StringVar(&initAuthorName, "author-name", "", "Name recorded on commits")
	initCmd.Flags().StringVar(&initAuthorEmail, "author-email", "", "Email recorded on commits")
	initCmd.MarkFlagRequired("remote")
	initCmd.MarkFlagRequired("author-name")
	initCmd.MarkFlagRequired("author-email")
}

func runInit(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Initialize(".", config.Config{
		RemoteURL:   initRemote,
		Branch:      initBranch,
		Owner:       initOwner,
		AuthorName:  initAuthorName,
		AuthorEmail: initAuthorEmail,
	})
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	syncer, err := newSyncer(cfg)
	if err != nil {
		exitError("%v", err)
	}

	result, err := syncer.InitializeRepo(ctx)
	if err != nil {
		exitError("failed to initialize repository: %v", err)
	}

	if result.BackupPath != "" {
		fmt.Printf("Existing files moved to %s\n", result.BackupPath)
	}
	fmt.Printf("Workspace initialized from %s\n", initRemote)
}
