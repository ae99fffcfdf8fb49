package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackmusick/gitsync/errors"
)

func validConfig() Config {
	return Config{
		RemoteURL:   "myorg/automation",
		Branch:      "main",
		Owner:       "myorg",
		AuthorName:  "Test User",
		AuthorEmail: "test@example.com",
	}
}

func TestInitializeAndLoadRoundTrip(t *testing.T) {
	workspace := t.TempDir()

	cfg, err := Initialize(workspace, validConfig())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workspace, GitsyncDir), cfg.Root())
	assert.Equal(t, workspace, cfg.WorkspacePath())

	loaded, err := Load(workspace)
	require.NoError(t, err)
	assert.Equal(t, "myorg/automation", loaded.RemoteURL)
	assert.Equal(t, "main", loaded.Branch)
	assert.Equal(t, "Test User", loaded.AuthorName)
}

func TestInitialize_RefusesExistingWorkspace(t *testing.T) {
	workspace := t.TempDir()

	_, err := Initialize(workspace, validConfig())
	require.NoError(t, err)

	_, err = Initialize(workspace, validConfig())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConflict, errors.GetCode(err))
}

func TestInitialize_ValidatesRequiredFields(t *testing.T) {
	workspace := t.TempDir()

	cfg := validConfig()
	cfg.RemoteURL = ""
	_, err := Initialize(workspace, cfg)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	cfg = validConfig()
	cfg.AuthorEmail = ""
	_, err = Initialize(workspace, cfg)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestFindRoot_WalksUpToWorkspace(t *testing.T) {
	workspace := t.TempDir()
	_, err := Initialize(workspace, validConfig())
	require.NoError(t, err)

	nested := filepath.Join(workspace, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	root, err := FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workspace, GitsyncDir), root)
}

func TestFindRoot_NotAWorkspace(t *testing.T) {
	_, err := FindRoot(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestLoadFrom_RejectsMalformedTOML(t *testing.T) {
	root := filepath.Join(t.TempDir(), GitsyncDir)
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFile), []byte("remote_url = [broken"), 0o644))

	_, err := LoadFrom(root)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}

func TestToken_UsesConfiguredEnvVar(t *testing.T) {
	cfg := validConfig()
	cfg.TokenEnv = "GITSYNC_TEST_TOKEN"
	t.Setenv("GITSYNC_TEST_TOKEN", "ghp_example")

	assert.Equal(t, "ghp_example", cfg.Token())
}
