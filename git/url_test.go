package git

import (
	"testing"

	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackmusick/gitsync/errors"
)

func TestNormalizeRemoteURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "https passthrough",
			input: "https://github.com/owner/repo.git",
			want:  "https://github.com/owner/repo.git",
		},
		{
			name:  "https without suffix passthrough",
			input: "https://github.com/owner/repo",
			want:  "https://github.com/owner/repo",
		},
		{
			name:  "owner repo shorthand",
			input: "owner/repo",
			want:  "https://github.com/owner/repo.git",
		},
		{
			name:  "shorthand with dots and dashes",
			input: "my-org/repo.name",
			want:  "https://github.com/my-org/repo.name.git",
		},
		{
			name:  "scp-like ssh",
			input: "git@github.com:owner/repo.git",
			want:  "https://github.com/owner/repo.git",
		},
		{
			name:  "scp-like ssh without suffix",
			input: "git@github.com:owner/repo",
			want:  "https://github.com/owner/repo.git",
		},
		{
			name:  "ssh url",
			input: "ssh://git@github.com/owner/repo.git",
			want:  "https://github.com/owner/repo.git",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  owner/repo\n",
			want:  "https://github.com/owner/repo.git",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "not a url at all",
			wantErr: true,
		},
		{
			name:    "bare name without owner",
			input:   "repo",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRemoteURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenAuth(t *testing.T) {
	auth := TokenAuth("ghp_secret")
	require.NotNil(t, auth)

	basic, ok := auth.(*githttp.BasicAuth)
	require.True(t, ok)
	assert.Equal(t, "x-access-token", basic.Username)
	assert.Equal(t, "ghp_secret", basic.Password)
}

func TestTokenAuth_EmptyToken(t *testing.T) {
	assert.Nil(t, TokenAuth(""))
}
