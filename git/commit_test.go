package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackmusick/gitsync/errors"
	"github.com/jackmusick/gitsync/git/testutil"
)

func TestCommit_RecordsPendingChanges(t *testing.T) {
	fx := newSyncFixture(t)

	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "README.md", "edited\n"))
	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "new.txt", "fresh\n"))

	result, err := fx.syncer.Commit("update files")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.CommitID)
	assert.Equal(t, 2, result.FilesCommitted)

	head, err := fx.local.Head()
	require.NoError(t, err)
	assert.Equal(t, result.CommitID, head.Hash.String())
	assert.Equal(t, "update files", head.Message)

	// The workspace is clean afterwards.
	changes, err := fx.syncer.Changes()
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestCommit_RecordsDeletions(t *testing.T) {
	fx := newSyncFixture(t)

	require.NoError(t, fx.local.Filesystem().Remove("README.md"))

	result, err := fx.syncer.Commit("drop readme")
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesCommitted)

	// The new tree no longer carries the path.
	head, err := fx.local.Head()
	require.NoError(t, err)
	tree, err := head.Tree()
	require.NoError(t, err)
	_, err = tree.File("README.md")
	require.Error(t, err)
}

func TestCommit_NothingToCommit(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := fx.syncer.Commit("empty")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestCommit_BlockedByUnresolvedConflicts(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.local, "README.md", "local change\n", "local edit")
	require.NoError(t, err)
	_, err = testutil.CommitFile(fx.remote, "README.md", "remote change\n", "remote edit")
	require.NoError(t, err)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)
	require.False(t, result.Success)

	_, err = fx.syncer.Commit("premature")
	require.Error(t, err)
	assert.Equal(t, errors.CodeMergeInProgress, errors.GetCode(err))
}

func TestResolveConflict_UnknownPath(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := fx.syncer.ResolveConflict("nope.txt")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestResolveConflict_CountsRemaining(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFiles(fx.local, map[string]string{
		"a.txt": "local a\n",
		"b.txt": "local b\n",
	}, "local edits")
	require.NoError(t, err)
	_, err = testutil.CommitFiles(fx.remote, map[string]string{
		"a.txt": "remote a\n",
		"b.txt": "remote b\n",
	}, "remote edits")
	require.NoError(t, err)

	result, err := fx.syncer.Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 2)

	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "a.txt", "resolved a\n"))
	remaining, err := fx.syncer.ResolveConflict("a.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "b.txt", "resolved b\n"))
	remaining, err = fx.syncer.ResolveConflict("b.txt")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}
