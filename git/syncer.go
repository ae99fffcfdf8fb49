package git

import (
	"sync"

	"github.com/jackmusick/gitsync/errors"
)

// Syncer binds one workspace directory to one remote branch and exposes the
// user-facing sync operations: InitializeRepo, Pull, Push, Commit,
// ResolveConflict, AbortMerge, Status, History.
//
// A Syncer holds no workspace-level lock beyond the fetch lock: callers must
// serialize pull/push/commit per workspace themselves. Fetches, by contrast,
// are serialized through the injected fetch lock because the mount's
// lock-file protocol fails under concurrent access; this is a correctness
// requirement, not an optimization.
type Syncer struct {
	workspace string
	remoteURL string
	branch    string
	token     string
	author    Signature

	remoteOps RemoteOperations
	installer PackageInstaller
	sink      ProgressSink
	fetchMu   *sync.Mutex
	ignored   map[string]bool

	// repoOverride, when set, bypasses Open(workspace). Used by tests to run
	// the engine against in-memory repositories.
	repoOverride *Repository
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithRemote sets the remote URL (full HTTPS, owner/repo shorthand, or SSH
// form) and branch the Syncer operates against. The URL is normalized to
// token-authenticated HTTPS during NewSyncer.
func WithRemote(url, branch string) SyncerOption {
	return func(s *Syncer) {
		s.remoteURL = url
		s.branch = branch
	}
}

// WithToken sets the personal-access-token used for all network operations.
func WithToken(token string) SyncerOption {
	return func(s *Syncer) {
		s.token = token
	}
}

// WithAuthor sets the commit author identity.
func WithAuthor(name, email string) SyncerOption {
	return func(s *Syncer) {
		s.author = Signature{Name: name, Email: email}
	}
}

// WithRemoteOperations replaces the network implementation. Primarily useful
// for testing with in-process remotes.
func WithRemoteOperations(ops RemoteOperations) SyncerOption {
	return func(s *Syncer) {
		s.remoteOps = ops
	}
}

// WithPackageInstaller sets the installer invoked best-effort after a
// replace-clone when a requirements manifest is present.
func WithPackageInstaller(installer PackageInstaller) SyncerOption {
	return func(s *Syncer) {
		s.installer = installer
	}
}

// WithProgressSink sets the sink for human-readable progress lines.
func WithProgressSink(sink ProgressSink) SyncerOption {
	return func(s *Syncer) {
		s.sink = sink
	}
}

// WithFetchLock injects a shared fetch lock. Pass the same lock to every
// Syncer in the process to serialize fetches process-wide.
func WithFetchLock(mu *sync.Mutex) SyncerOption {
	return func(s *Syncer) {
		s.fetchMu = mu
	}
}

// WithIgnoredEntries names top-level workspace entries the engine treats as
// non-content, alongside .git and metadata artifacts: they are never backed
// up, never reported as changes, and never count toward empty-workspace
// detection. CLI callers pass their config directory here.
func WithIgnoredEntries(names ...string) SyncerOption {
	return func(s *Syncer) {
		for _, name := range names {
			s.ignored[name] = true
		}
	}
}

// WithRepository injects an already-open repository, bypassing Open on the
// workspace path. Intended for tests.
func WithRepository(repo *Repository) SyncerOption {
	return func(s *Syncer) {
		s.repoOverride = repo
	}
}

// NewSyncer creates a Syncer for the given workspace path.
//
// The workspace is typically a directory on a network mount. The remote URL
// given through WithRemote is normalized immediately; an unusable URL fails
// construction rather than the first operation.
func NewSyncer(workspace string, opts ...SyncerOption) (*Syncer, error) {
	if workspace == "" {
		return nil, errors.New(errors.CodeInvalidInput, "workspace path is required")
	}

	s := &Syncer{
		workspace: workspace,
		author:    Signature{Name: "gitsync", Email: "gitsync@localhost"},
		remoteOps: &defaultRemoteOps{},
		fetchMu:   &sync.Mutex{},
		ignored:   map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.remoteURL != "" {
		normalized, err := NormalizeRemoteURL(s.remoteURL)
		if err != nil {
			return nil, err
		}
		s.remoteURL = normalized
	}

	return s, nil
}

// Workspace returns the workspace path this Syncer is bound to.
func (s *Syncer) Workspace() string {
	return s.workspace
}

// openRepo opens the workspace repository, honoring a test override.
func (s *Syncer) openRepo() (*Repository, error) {
	if s.repoOverride != nil {
		return s.repoOverride, nil
	}
	return Open(s.workspace)
}

// auth returns the transport auth derived from the configured token.
func (s *Syncer) auth() Auth {
	return TokenAuth(s.token)
}

// progressf reports a progress line if a sink is configured.
func (s *Syncer) progressf(format string, args ...interface{}) {
	if s.sink != nil {
		s.sink.Progress(format, args...)
	}
}

// resolveBranch returns the branch to operate on: the configured branch, or
// the repository's current branch when none was configured. A detached HEAD
// yields a DETACHED_HEAD error since branch-relative operations are disabled.
func (s *Syncer) resolveBranch(repo *Repository) (string, error) {
	if s.branch != "" {
		return s.branch, nil
	}

	branch, detached, err := repo.CurrentBranch()
	if err != nil {
		return "", err
	}
	if detached {
		return "", errors.New(errors.CodeDetachedHead, "HEAD is detached; branch operations are unavailable")
	}
	return branch, nil
}
