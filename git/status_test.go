package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackmusick/gitsync/git"
	"github.com/jackmusick/gitsync/git/testutil"
)

func TestStatus_CleanWorkspace(t *testing.T) {
	fx := newSyncFixture(t)

	status, err := fx.syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)

	assert.True(t, status.Initialized)
	assert.True(t, status.RemoteConfigured)
	assert.Equal(t, testutil.TestBranch, status.Branch)
	assert.False(t, status.Detached)
	assert.False(t, status.Merging)
	assert.Empty(t, status.Changes)
	assert.Empty(t, status.Conflicts)
	assert.Equal(t, 0, status.Ahead)
	assert.Equal(t, 0, status.Behind)
	require.Len(t, status.History, 1)
	assert.Equal(t, "initial commit", status.History[0].Message)
	assert.True(t, status.History[0].Pushed)
}

func TestStatus_Idempotent(t *testing.T) {
	fx := newSyncFixture(t)

	// A dirty workspace with commits in both directions.
	_, err := testutil.CommitFile(fx.local, "local.txt", "l\n", "local commit")
	require.NoError(t, err)
	_, err = testutil.CommitFile(fx.remote, "remote.txt", "r\n", "remote commit")
	require.NoError(t, err)
	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "scratch.txt", "wip\n"))

	first, err := fx.syncer.Status(context.Background(), git.StatusOptions{Fetch: true})
	require.NoError(t, err)
	second, err := fx.syncer.Status(context.Background(), git.StatusOptions{Fetch: true})
	require.NoError(t, err)

	assert.Equal(t, first.Changes, second.Changes)
	assert.Equal(t, first.Conflicts, second.Conflicts)
	assert.Equal(t, first.Ahead, second.Ahead)
	assert.Equal(t, first.Behind, second.Behind)
	assert.Equal(t, first.History, second.History)
}

func TestStatus_FetchOptInUpdatesBehind(t *testing.T) {
	fx := newSyncFixture(t)

	_, err := testutil.CommitFile(fx.remote, "remote.txt", "r\n", "remote commit")
	require.NoError(t, err)

	// Without fetch the stale tracking ref hides the remote commit.
	status, err := fx.syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, status.Behind)
	assert.Equal(t, 0, fx.ops.FetchCalls)

	status, err = fx.syncer.Status(context.Background(), git.StatusOptions{Fetch: true})
	require.NoError(t, err)
	assert.Equal(t, 1, status.Behind)
	assert.Equal(t, 1, fx.ops.FetchCalls)
}

func TestChanges_Classification(t *testing.T) {
	fx := newSyncFixture(t)

	// Modify a tracked file, add an untracked one, delete a tracked one.
	_, err := testutil.CommitFile(fx.local, "doomed.txt", "bye\n", "add doomed")
	require.NoError(t, err)

	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "README.md", "edited\n"))
	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "fresh.txt", "new\n"))
	require.NoError(t, fx.local.Filesystem().Remove("doomed.txt"))

	changes, err := fx.syncer.Changes()
	require.NoError(t, err)

	byPath := make(map[string]git.FileChangeKind, len(changes))
	for _, change := range changes {
		byPath[change.Path] = change.Kind
	}
	assert.Equal(t, git.ChangeModified, byPath["README.md"])
	assert.Equal(t, git.ChangeUntracked, byPath["fresh.txt"])
	assert.Equal(t, git.ChangeDeleted, byPath["doomed.txt"])
	assert.Len(t, changes, 3)
}

func TestChanges_IgnoresMetadataArtifacts(t *testing.T) {
	fx := newSyncFixture(t)

	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), ".DS_Store", "junk"))
	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), "._shadow", "junk"))

	changes, err := fx.syncer.Changes()
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestChanges_IgnoresConfiguredEntries(t *testing.T) {
	fx := newSyncFixture(t)

	require.NoError(t, testutil.WriteFile(fx.local.Filesystem(), ".gitsync/config.toml", "remote_url = \"o/r\"\n"))

	syncer, err := git.NewSyncer("/workspace",
		git.WithRepository(fx.local),
		git.WithRemoteOperations(fx.ops),
		git.WithRemote(testutil.TestRepoURL, testutil.TestBranch),
		git.WithIgnoredEntries(".gitsync"),
	)
	require.NoError(t, err)

	// The config directory never shows up as untracked, so a workspace whose
	// only extra content is its own config can still push.
	changes, err := syncer.Changes()
	require.NoError(t, err)
	assert.Empty(t, changes)

	result, err := syncer.Push(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestStatus_UninitializedWorkspace(t *testing.T) {
	syncer, err := git.NewSyncer(t.TempDir())
	require.NoError(t, err)

	status, err := syncer.Status(context.Background(), git.StatusOptions{})
	require.NoError(t, err)
	assert.False(t, status.Initialized)
	assert.False(t, status.RemoteConfigured)
}
