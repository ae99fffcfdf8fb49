package git_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackmusick/gitsync/errors"
	"github.com/jackmusick/gitsync/git"
	"github.com/jackmusick/gitsync/git/testutil"
)

func TestPull_AlreadyUpToDate(t *testing.T) {
	fx := newSyncFixture(t)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.UpdatedFiles)
	assert.Empty(t, result.Conflicts)
}

func TestPull_FastForward(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.remote, "docs/guide.md", "# Guide\n", "add guide")
	require.NoError(t, err)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"docs/guide.md"}, result.UpdatedFiles)
	assert.Empty(t, result.Conflicts)

	// Local HEAD moved to the remote tip and the file materialized.
	localHead, err := fx.local.Head()
	require.NoError(t, err)
	remoteHead, err := fx.remote.Head()
	require.NoError(t, err)
	assert.Equal(t, remoteHead.Hash, localHead.Hash)
	assert.Equal(t, "# Guide\n", readWorkingFile(t, fx.local, "docs/guide.md"))

	// No merge left pending after a fast-forward.
	status, err := fx.syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)
	assert.False(t, status.Merging)
}

func TestPull_LocalAheadIsNoOp(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.local, "local.txt", "local work\n", "local commit")
	require.NoError(t, err)
	before, err := fx.local.Head()
	require.NoError(t, err)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.UpdatedFiles)

	after, err := fx.local.Head()
	require.NoError(t, err)
	assert.Equal(t, before.Hash, after.Hash)
}

func TestPull_CleanDivergentMergeStages(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.local, "ours.txt", "local side\n", "local commit")
	require.NoError(t, err)
	_, err = testutil.CommitFile(fx.remote, "theirs.txt", "remote side\n", "remote commit")
	require.NoError(t, err)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Conflicts)
	assert.Equal(t, []string{"ours.txt", "theirs.txt"}, result.UpdatedFiles)
	assert.Equal(t, "remote side\n", readWorkingFile(t, fx.local, "theirs.txt"))

	status, err := fx.syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)
	assert.True(t, status.Merging)
	assert.True(t, status.MergeReady)

	// Committing finishes the merge with both tips as parents.
	commitResult, err := fx.syncer.Commit("merge remote changes")
	require.NoError(t, err)
	assert.True(t, commitResult.Success)

	head, err := fx.local.Head()
	require.NoError(t, err)
	assert.Equal(t, 2, head.NumParents())

	status, err = fx.syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)
	assert.False(t, status.Merging)
}

func TestPull_ConflictRoundTrip(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.local, "README.md", "local change\n", "local edit")
	require.NoError(t, err)
	_, err = testutil.CommitFile(fx.remote, "README.md", "remote change\n", "remote edit")
	require.NoError(t, err)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Conflicts, 1)
	conflict := result.Conflicts[0]
	assert.Equal(t, "README.md", conflict.Path)
	assert.Equal(t, "local change\n", conflict.Ours)
	assert.Equal(t, "remote change\n", conflict.Theirs)
	require.NotNil(t, conflict.Base)
	assert.Equal(t, testutil.TestFileContent, *conflict.Base)

	// The working file carries conflict markers with both versions.
	marked := readWorkingFile(t, fx.local, "README.md")
	assert.True(t, strings.HasPrefix(marked, "<<<<<<< HEAD\n"))
	assert.Contains(t, marked, "local change\n")
	assert.Contains(t, marked, "=======\n")
	assert.Contains(t, marked, "remote change\n")
	assert.Contains(t, marked, "||||||| ")
	assert.Contains(t, marked, testutil.TestFileContent)

	conflicts, err := fx.syncer.GetConflicts()
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "README.md", conflicts[0].Path)

	// Resolve by writing the desired content and marking the path resolved.
	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "README.md", "resolved content\n"))
	remaining, err := fx.syncer.ResolveConflict("README.md")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	conflicts, err = fx.syncer.GetConflicts()
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	commitResult, err := fx.syncer.Commit("resolve conflict")
	require.NoError(t, err)
	assert.True(t, commitResult.Success)

	// Merge marker cleared, merge commit has both parents.
	status, err := fx.syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)
	assert.False(t, status.Merging)

	head, err := fx.local.Head()
	require.NoError(t, err)
	assert.Equal(t, 2, head.NumParents())
}

func TestPull_RefusedWhileConflictsUnresolved(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.local, "README.md", "local change\n", "local edit")
	require.NoError(t, err)
	_, err = testutil.CommitFile(fx.remote, "README.md", "remote change\n", "remote edit")
	require.NoError(t, err)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)
	require.False(t, result.Success)

	_, err = fx.syncer.Pull(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeMergeInProgress, errors.GetCode(err))
}

func TestPull_CollisionWithUncommittedChanges(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.remote, "README.md", "remote change\n", "remote edit")
	require.NoError(t, err)
	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "README.md", "uncommitted local edit\n"))

	_, err = fx.syncer.Pull(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConflict, errors.GetCode(err))
	assert.Contains(t, err.Error(), "README.md")

	// Nothing was mutated: the uncommitted edit survives and no merge is
	// pending.
	assert.Equal(t, "uncommitted local edit\n", readWorkingFile(t, fx.local, "README.md"))
	status, err := fx.syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)
	assert.False(t, status.Merging)
}

func TestPull_AbortRestoresWorkspace(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.local, "README.md", "local change\n", "local edit")
	require.NoError(t, err)
	_, err = testutil.CommitFile(fx.remote, "README.md", "remote change\n", "remote edit")
	require.NoError(t, err)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)
	require.False(t, result.Success)

	require.NoError(t, fx.syncer.AbortMerge())

	// Zero multi-stage entries remain and the marker is gone.
	assert.Equal(t, 0, conflictedStageCount(t, fx.local))
	status, err := fx.syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)
	assert.False(t, status.Merging)

	// Conflict markers reverted to the local commit's content.
	assert.Equal(t, "local change\n", readWorkingFile(t, fx.local, "README.md"))
}

func TestAbortMerge_WithoutMergeFails(t *testing.T) {
	fx := newSyncFixture(t)

	err := fx.syncer.AbortMerge()
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestPull_DiscardsStaleMergeMarker(t *testing.T) {
	fx := newSyncFixture(t)

	// Simulate a crash between resolving the last conflict and committing:
	// a merge marker with no conflicted index entries left behind.
	head, err := fx.local.Head()
	require.NoError(t, err)
	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), ".git/MERGE_HEAD", head.Hash.String()+"\n"))

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = fx.local.Filesystem().Stat(".git/MERGE_HEAD")
	assert.Error(t, err, "stale marker should be discarded")
}
