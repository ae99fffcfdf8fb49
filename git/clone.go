package git

import (
	"context"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/jackmusick/gitsync/errors"
)

// requirementsManifest is the dependency manifest checked after a
// replace-clone.
const requirementsManifest = "requirements.txt"

// InitializeRepo binds the workspace to the configured remote. Three
// mutually exclusive scenarios, selected by inspecting the workspace
// (platform metadata artifacts are ignored when deciding "empty"):
//
//  1. Workspace is already a repository: rewrite the origin remote, fetch,
//     and hard-reset the branch to the remote tip.
//  2. Workspace is empty: clone into it.
//  3. Workspace holds non-repository files: move every real file to a
//     timestamped backup directory next to the workspace, then clone. The
//     backup path is returned in the result.
//
// Clones always stage through a local-disk directory first and materialize
// into the workspace as a bulk copy, so a failed clone never leaves a
// partial repository on the mount. The staging directory is removed
// unconditionally.
func (s *Syncer) InitializeRepo(ctx context.Context) (*InitResult, error) {
	if s.remoteURL == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "no remote configured for workspace")
	}

	if _, err := os.Stat(filepath.Join(s.workspace, gogit.GitDirName)); err == nil {
		if err := s.reattachExisting(ctx); err != nil {
			return nil, err
		}
		return &InitResult{Success: true}, nil
	}

	if err := os.MkdirAll(s.workspace, 0o755); err != nil {
		return nil, wrapError(err, "failed to create workspace directory")
	}

	entries, err := realEntries(s.workspace, s.ignored)
	if err != nil {
		return nil, err
	}

	backupPath := ""
	if len(entries) > 0 {
		backupPath, err = backupWorkspace(s.workspace, s.ignored, s.sink)
		if err != nil {
			return nil, err
		}
	}

	if err := s.cloneInto(ctx); err != nil {
		return nil, err
	}

	if backupPath != "" {
		s.installDependencies()
	}

	return &InitResult{Success: true, BackupPath: backupPath}, nil
}

// cloneInto clones the remote into a local staging directory and bulk-copies
// the result, object store included, into the workspace.
func (s *Syncer) cloneInto(ctx context.Context) error {
	staging, err := os.MkdirTemp("", "gitsync-clone-*")
	if err != nil {
		return wrapError(err, "failed to create staging directory")
	}
	defer func() { _ = os.RemoveAll(staging) }()

	opts := CloneOptions{
		URL:  s.remoteURL,
		Auth: s.auth(),
	}
	if s.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.branch)
	}

	s.progressf("cloning %s", s.remoteURL)
	if _, err := s.remoteOps.Clone(ctx, staging, opts); err != nil {
		return err
	}

	s.progressf("materializing clone into workspace")
	return materialize(staging, s.workspace, s.sink)
}

// reattachExisting repoints an existing workspace repository at the
// configured remote and hard-resets the branch to the remote tip.
func (s *Syncer) reattachExisting(ctx context.Context) error {
	repo, err := s.openRepo()
	if err != nil {
		return err
	}

	if err := repo.setOriginURL(s.remoteURL); err != nil {
		return err
	}

	if err := s.fetch(ctx, repo); err != nil {
		return err
	}

	branch := s.branch
	if branch == "" {
		branch, err = s.resolveBranch(repo)
		if err != nil {
			return err
		}
	}

	remoteHash, ok, err := repo.remoteTrackingHash(DefaultRemoteName, branch)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.CodeNotFound, "remote has no branch "+branch)
	}

	branchRef := plumbing.NewBranchReferenceName(branch)
	err = repo.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, remoteHash))
	if err != nil {
		return wrapError(err, "failed to update branch "+branch)
	}
	err = repo.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchRef))
	if err != nil {
		return wrapError(err, "failed to update HEAD")
	}

	wt, err := repo.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to open worktree")
	}
	err = wt.Reset(&gogit.ResetOptions{
		Commit: remoteHash,
		Mode:   gogit.HardReset,
	})
	if err != nil {
		return wrapError(err, "failed to reset working tree to remote tip")
	}

	s.progressf("reset %s to remote %s", branch, remoteHash.String()[:8])
	return nil
}

// installDependencies invokes the package installer when the cloned
// workspace carries a requirements manifest. Best-effort: failures are
// reported through the progress sink and never fail the clone.
func (s *Syncer) installDependencies() {
	if s.installer == nil {
		return
	}
	if _, err := os.Stat(filepath.Join(s.workspace, requirementsManifest)); err != nil {
		return
	}

	s.progressf("installing workspace dependencies")
	if err := s.installer.Install(s.workspace); err != nil {
		s.progressf("dependency install failed (continuing): %v", err)
	}
}
