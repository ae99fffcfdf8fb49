// Package config manages gitsync configuration and the .gitsync directory.
// It handles loading, saving, and initializing workspace configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/jackmusick/gitsync/errors"
)

const (
	// GitsyncDir is the directory holding workspace configuration.
	GitsyncDir = ".gitsync"

	// ConfigFile is the configuration file name inside GitsyncDir.
	ConfigFile = "config.toml"

	// DefaultTokenEnv is the environment variable consulted for the GitHub
	// token when the config does not name one.
	DefaultTokenEnv = "GITHUB_TOKEN"
)

// Config represents the gitsync workspace configuration.
type Config struct {
	// RemoteURL is the GitHub repository to sync with. Accepts the same
	// forms as the sync engine: full HTTPS, SSH, or "owner/repo".
	RemoteURL string `toml:"remote_url"`

	// Branch is the branch to sync. Empty means the repository's current
	// branch (or the remote default on first clone).
	Branch string `toml:"branch,omitempty"`

	// Owner is the GitHub organization or user for directory operations.
	Owner string `toml:"owner,omitempty"`

	// AuthorName and AuthorEmail are recorded on commits.
	AuthorName  string `toml:"author_name"`
	AuthorEmail string `toml:"author_email"`

	// TokenEnv names the environment variable holding the GitHub token.
	// Defaults to GITHUB_TOKEN.
	TokenEnv string `toml:"token_env,omitempty"`

	// Workspace is the synced directory. Defaults to the directory
	// containing .gitsync.
	Workspace string `toml:"workspace,omitempty"`

	path string // path to the .gitsync directory
}

// FindRoot finds the .gitsync directory by walking up from the given
// directory (or the working directory when dir is empty).
func FindRoot(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.CodeFilesystem, "failed to resolve working directory")
		}
		dir = cwd
	}

	for {
		candidate := filepath.Join(dir, GitsyncDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeNotFound, "not a gitsync workspace (or any parent up to root)")
		}
		dir = parent
	}
}

// Load loads the configuration for the workspace containing dir.
func Load(dir string) (*Config, error) {
	root, err := FindRoot(dir)
	if err != nil {
		return nil, err
	}
	return LoadFrom(root)
}

// LoadFrom loads the configuration from a specific .gitsync directory.
func LoadFrom(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFilesystem, "failed to read config")
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse config")
	}

	cfg.path = root
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to marshal config")
	}

	if err := os.WriteFile(filepath.Join(c.path, ConfigFile), data, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeFilesystem, "failed to write config")
	}
	return nil
}

// Initialize creates a .gitsync directory under workspace with the given
// configuration and writes it to disk.
func Initialize(workspace string, cfg Config) (*Config, error) {
	root := filepath.Join(workspace, GitsyncDir)

	if _, err := os.Stat(root); err == nil {
		return nil, errors.New(errors.CodeConflict, "gitsync workspace already initialized")
	}

	cfg.path = root
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeFilesystem, "failed to create .gitsync directory")
	}

	if err := cfg.Save(); err != nil {
		os.RemoveAll(root)
		return nil, err
	}

	return &cfg, nil
}

// Root returns the path to the .gitsync directory.
func (c *Config) Root() string {
	return c.path
}

// WorkspacePath returns the synced directory, defaulting to the directory
// containing .gitsync.
func (c *Config) WorkspacePath() string {
	if c.Workspace != "" {
		return c.Workspace
	}
	return filepath.Dir(c.path)
}

// Token resolves the GitHub token from the configured environment variable.
// Returns an empty string when the variable is unset.
func (c *Config) Token() string {
	env := c.TokenEnv
	if env == "" {
		env = DefaultTokenEnv
	}
	return os.Getenv(env)
}

func (c *Config) validate() error {
	if c.RemoteURL == "" {
		err := errors.New(errors.CodeInvalidConfig, "remote_url is required")
		return errors.WithContext(err, "field", "remote_url")
	}
	if c.AuthorName == "" || c.AuthorEmail == "" {
		err := errors.New(errors.CodeInvalidConfig, "author_name and author_email are required")
		return errors.WithContext(err, "field", "author")
	}
	return nil
}
