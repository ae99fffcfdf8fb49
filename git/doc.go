// Package git implements a Git synchronization engine for network-mounted
// workspaces, built entirely on go-git: no git binary is required, and no
// POSIX-correct filesystem semantics are assumed from the workspace mount.
//
// The package reproduces the user-facing behavior of a desktop Git client:
// clone, fetch, pull with three-way merge and conflict surfacing, commit,
// push, merge abort, per-file conflict resolution, and commit-history and
// ahead/behind reporting.
//
// The main entry point is Syncer, which binds one workspace directory to one
// remote branch:
//
//	syncer, err := git.NewSyncer("/mnt/workspaces/acme",
//	    git.WithRemote("acme/site-scripts", "main"),
//	    git.WithToken(token),
//	)
//	if err != nil {
//	    return err
//	}
//	result, err := syncer.Pull(ctx)
//	if err != nil {
//	    return err
//	}
//	if !result.Success {
//	    // result.Conflicts lists the files needing resolution.
//	}
//
// Bulk filesystem work (clone, workspace replacement) is staged on local disk
// and then materialized onto the mount in one pass, so a flaky mount never
// holds a half-written repository. Platform metadata artifacts (.DS_Store and
// friends) are ignored everywhere, and directory entries that vanish between
// listing and use are tolerated rather than fatal.
//
// Network operations go through the RemoteOperations interface, which allows
// tests to substitute an in-process implementation (see the testutil package).
package git
