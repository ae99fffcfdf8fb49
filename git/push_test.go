package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackmusick/gitsync/errors"
	"github.com/jackmusick/gitsync/git/testutil"
)

func TestPush_NoOpSkipsTransport(t *testing.T) {
	fx := newSyncFixture(t)

	result, err := fx.syncer.Push(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.CommitsPushed)
	assert.Equal(t, 0, fx.ops.PushCalls, "no-op push must not touch the transport")
}

func TestPush_UploadsLocalCommits(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.local, "one.txt", "1\n", "first")
	require.NoError(t, err)
	_, err = testutil.CommitFile(fx.local, "two.txt", "2\n", "second")
	require.NoError(t, err)

	result, err := fx.syncer.Push(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.CommitsPushed)
	assert.Equal(t, 1, fx.ops.PushCalls)

	// The remote branch moved to the local tip.
	localHead, err := fx.local.Head()
	require.NoError(t, err)
	remoteHead, err := fx.remote.Head()
	require.NoError(t, err)
	assert.Equal(t, localHead.Hash, remoteHead.Hash)

	// The remote-tracking ref was advanced immediately: a second push is a
	// no-op without another fetch.
	again, err := fx.syncer.Push(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, again.CommitsPushed)
	assert.Equal(t, 1, fx.ops.PushCalls)
}

func TestPush_BlockedByUncommittedChanges(t *testing.T) {
	fx := newSyncFixture(t)

	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "README.md", "dirty\n"))

	_, err := fx.syncer.Push(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConflict, errors.GetCode(err))
	assert.Contains(t, err.Error(), "README.md")
	assert.Equal(t, 0, fx.ops.PushCalls)
}
