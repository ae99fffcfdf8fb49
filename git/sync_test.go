package git_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jackmusick/gitsync/git"
	"github.com/jackmusick/gitsync/git/testutil"
)

// syncFixture wires a local in-memory clone to an in-process remote, the
// standard starting state for sync scenarios: both sides at the same initial
// commit, origin configured, remote-tracking refs populated.
type syncFixture struct {
	syncer *git.Syncer
	local  *git.Repository
	remote *git.Repository
	ops    *testutil.InProcessRemote
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	remote, _, err := testutil.NewMemoryRepo()
	require.NoError(t, err)
	_, err = testutil.CommitFile(remote, "README.md", testutil.TestFileContent, "initial commit")
	require.NoError(t, err)

	ops := testutil.NewInProcessRemote(remote)
	local, err := ops.CloneInMemory()
	require.NoError(t, err)

	syncer, err := git.NewSyncer("/workspace",
		git.WithRepository(local),
		git.WithRemoteOperations(ops),
		git.WithRemote(testutil.TestRepoURL, testutil.TestBranch),
		git.WithToken("test-token"),
	)
	require.NoError(t, err)

	return &syncFixture{syncer: syncer, local: local, remote: remote, ops: ops}
}

// conflictedStageCount counts index entries above stage zero.
func conflictedStageCount(t *testing.T, repo *git.Repository) int {
	t.Helper()
	idx, err := repo.Underlying().Storer.Index()
	require.NoError(t, err)

	count := 0
	for _, entry := range idx.Entries {
		if entry.Stage > 0 {
			count++
		}
	}
	return count
}

func readWorkingFile(t *testing.T, repo *git.Repository, path string) string {
	t.Helper()
	f, err := repo.Filesystem().Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		n, err := f.Read(tmp)
		buf = append(buf, tmp[:n]...)
		if err != nil {
			break
		}
	}
	return string(buf)
}
