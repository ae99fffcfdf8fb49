package git

import (
	"time"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository wraps a go-git repository together with the billy filesystems it
// lives on: one scoped to the working tree and one scoped to the .git control
// directory. All marker-file and object-store access goes through these
// filesystems so tests can run entirely in memory.
type Repository struct {
	path   string
	repo   *gogit.Repository
	fs     billy.Filesystem // working tree root
	dotgit billy.Filesystem // control directory (.git)
}

// Auth is an interface for authentication methods.
// It is satisfied by go-git's transport.AuthMethod.
type Auth interface {
	// Marker interface - satisfied by go-git transport.AuthMethod
}

// Signature identifies the author used for commits created by the engine.
type Signature struct {
	Name  string
	Email string
}

// FileChangeKind classifies a pending working-tree change relative to HEAD.
type FileChangeKind string

const (
	// ChangeAdded is a path staged in the index but absent from HEAD.
	ChangeAdded FileChangeKind = "added"
	// ChangeModified is a path whose content differs from HEAD.
	ChangeModified FileChangeKind = "modified"
	// ChangeDeleted is a path present in HEAD but missing from the working tree.
	ChangeDeleted FileChangeKind = "deleted"
	// ChangeUntracked is a path on disk that is neither in HEAD nor the index.
	ChangeUntracked FileChangeKind = "untracked"
)

// FileChange is a single pending change, computed per request by diffing the
// index and working tree against HEAD. Platform metadata artifacts and paths
// in the current conflict set are never reported as changes.
type FileChange struct {
	Path string         `json:"path"`
	Kind FileChangeKind `json:"kind"`
}

// ConflictInfo describes one conflicted path of an unresolved merge.
// Base is nil when the path did not exist in the common ancestor.
type ConflictInfo struct {
	Path   string  `json:"path"`
	Ours   string  `json:"ours"`
	Theirs string  `json:"theirs"`
	Base   *string `json:"base,omitempty"`
}

// CommitInfo is one entry of the commit history. Pushed reports whether the
// commit is reachable from the remote-tracking ref.
type CommitInfo struct {
	Hash      string    `json:"hash"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Pushed    bool      `json:"pushed"`
}

// InitResult is the outcome of InitializeRepo. BackupPath is non-empty only
// when pre-existing workspace files were moved aside before cloning.
type InitResult struct {
	Success    bool   `json:"success"`
	BackupPath string `json:"backup_path,omitempty"`
}

// PullResult is the outcome of Pull. A pull that detects conflicts is not an
// error: Success is false and Conflicts holds one entry per conflicted path.
type PullResult struct {
	Success      bool           `json:"success"`
	UpdatedFiles []string       `json:"updated_files"`
	Conflicts    []ConflictInfo `json:"conflicts"`
}

// PushResult is the outcome of Push. Pushing zero commits is a successful
// no-op, not an error.
type PushResult struct {
	Success       bool `json:"success"`
	CommitsPushed int  `json:"commits_pushed"`
}

// CommitResult is the outcome of Commit.
type CommitResult struct {
	Success        bool   `json:"success"`
	CommitID       string `json:"commit_id"`
	FilesCommitted int    `json:"files_committed"`
}

// Status is the aggregate repository status returned by Syncer.Status.
type Status struct {
	Initialized      bool           `json:"initialized"`
	RemoteConfigured bool           `json:"remote_configured"`
	Branch           string         `json:"branch"`
	Detached         bool           `json:"detached"`
	Merging          bool           `json:"merging"`
	MergeReady       bool           `json:"merge_ready"`
	Changes          []FileChange   `json:"changed_files"`
	Conflicts        []ConflictInfo `json:"conflicts"`
	Ahead            int            `json:"commits_ahead"`
	Behind           int            `json:"commits_behind"`
	History          []CommitInfo   `json:"history"`
}

// StatusOptions configures Syncer.Status.
type StatusOptions struct {
	// Fetch refreshes remote-tracking refs before computing ahead/behind.
	// Off by default to keep status checks fast on slow mounts.
	Fetch bool
	// HistoryLimit bounds the first history page included in the status.
	// Zero means DefaultHistoryLimit.
	HistoryLimit int
}

// DefaultHistoryLimit is the history page size used when none is given.
const DefaultHistoryLimit = 20

// ProgressSink receives human-readable progress lines from long-running
// operations. A nil sink suppresses reporting without changing behavior.
type ProgressSink interface {
	Progress(format string, args ...interface{})
}

// ProgressFunc adapts a plain function to the ProgressSink interface.
type ProgressFunc func(format string, args ...interface{})

// Progress implements ProgressSink.
func (f ProgressFunc) Progress(format string, args ...interface{}) {
	f(format, args...)
}

// PackageInstaller installs workspace dependencies after a replace-clone when
// a requirements manifest is present. Installation is best-effort: failures
// are reported through the progress sink and never fail the clone.
type PackageInstaller interface {
	Install(workspace string) error
}

// CloneOptions configures RemoteOperations.Clone.
type CloneOptions struct {
	URL           string
	Auth          Auth
	ReferenceName plumbing.ReferenceName // branch to clone; empty for remote default
}

// FetchOptions configures RemoteOperations.Fetch.
type FetchOptions struct {
	RemoteName string // Default: "origin"
	Auth       Auth
}

// PushOptions configures RemoteOperations.Push.
type PushOptions struct {
	RemoteName string // Default: "origin"
	RefSpecs   []string
	Auth       Auth
}
