package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "no remote configured")

	assert.Equal(t, CodeNotFound, err.Code())
	assert.Equal(t, ClassificationPermanent, err.Classification())
	assert.Equal(t, "no remote configured", err.Message())
	assert.Nil(t, err.Context())
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "[NOT_FOUND] no remote configured", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeConflict, "%d files have uncommitted changes", 3)

	assert.Equal(t, CodeConflict, err.Code())
	assert.Equal(t, "3 files have uncommitted changes", err.Message())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeNetwork, "failed to fetch from remote")

	assert.Equal(t, CodeNetwork, err.Code())
	assert.Equal(t, ClassificationRetryable, err.Classification())
	assert.Equal(t, "failed to fetch from remote", err.Message())
	assert.Equal(t, "[NETWORK_ERROR] failed to fetch from remote: connection refused", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeNetwork, "should be nil"))
	assert.Nil(t, Wrapf(nil, CodeNetwork, "should be %s", "nil"))
	assert.Nil(t, WrapWithContext(nil, CodeNetwork, "should be nil", nil))
}

func TestWrap_PreservesClassification(t *testing.T) {
	// A retryable inner error stays retryable even when wrapped with a code
	// that defaults to permanent.
	inner := New(CodeTimeout, "fetch timed out")
	wrapped := Wrap(inner, CodeInternal, "pull failed")

	assert.Equal(t, CodeInternal, wrapped.Code())
	assert.Equal(t, ClassificationRetryable, wrapped.Classification())
}

func TestWrapf_FormatsMessage(t *testing.T) {
	cause := stderrors.New("object not found")
	err := Wrapf(cause, CodeInternal, "missing tree for commit %s", "abc123")

	assert.Equal(t, "missing tree for commit abc123", err.Message())
	assert.True(t, stderrors.Is(err, cause))
}

func TestWithContext(t *testing.T) {
	err := New(CodeConflict, "pull would overwrite local changes")
	err = WithContext(err, "branch", "main")
	err = WithContext(err, "files", []string{"app.py"})

	ctx := err.Context()
	require.NotNil(t, ctx)
	assert.Equal(t, "main", ctx["branch"])
	assert.Equal(t, []string{"app.py"}, ctx["files"])
	// Code and message survive context attachment.
	assert.Equal(t, CodeConflict, err.Code())
	assert.Equal(t, "pull would overwrite local changes", err.Message())
}

func TestWithContext_PlainError(t *testing.T) {
	err := WithContext(fmt.Errorf("boom"), "op", "push")

	assert.Equal(t, CodeUnknown, err.Code())
	assert.Equal(t, "push", err.Context()["op"])
}

func TestWithContextMap_Merges(t *testing.T) {
	err := WithContext(New(CodeNetwork, "push failed"), "remote", "origin")
	err = WithContextMap(err, map[string]interface{}{
		"remote": "upstream", // overrides
		"branch": "main",
	})

	ctx := err.Context()
	assert.Equal(t, "upstream", ctx["remote"])
	assert.Equal(t, "main", ctx["branch"])
}

func TestContext_DefensiveCopy(t *testing.T) {
	err := WithContext(New(CodeNetwork, "push failed"), "remote", "origin")

	ctx := err.Context()
	ctx["remote"] = "mutated"

	assert.Equal(t, "origin", err.Context()["remote"])
}

func TestWithClassification(t *testing.T) {
	err := WithClassification(New(CodeFilesystem, "mount gone"), ClassificationPermanent)

	assert.Equal(t, ClassificationPermanent, err.Classification())
	assert.False(t, IsRetryable(err))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil error", nil, CodeUnknown},
		{"plain error", stderrors.New("plain"), CodeUnknown},
		{"platform error", New(CodeMergeInProgress, "resolve or abort"), CodeMergeInProgress},
		{"wrapped platform error", fmt.Errorf("outer: %w", New(CodeNotFound, "gone")), CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(CodeNetwork, "dial failed")))
	assert.False(t, IsRetryable(New(CodeInvalidInput, "bad url")))
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(stderrors.New("plain")))
}

func TestToJSON(t *testing.T) {
	err := WithContext(New(CodeUnauthorized, "invalid token"), "remote", "origin")

	resp := ToJSON(err)
	require.NotNil(t, resp)
	assert.Equal(t, "UNAUTHORIZED", resp.Code)
	assert.Equal(t, "invalid token", resp.Message)
	assert.Equal(t, "PERMANENT", resp.Classification)
	assert.Equal(t, "origin", resp.Context["remote"])

	assert.Nil(t, ToJSON(nil))
}

func TestToJSON_ExcludesCause(t *testing.T) {
	cause := stderrors.New("token=ghp_secret leaked detail")
	err := Wrap(cause, CodeUnauthorized, "authentication failed")

	resp := ToJSON(err)
	assert.Equal(t, "authentication failed", resp.Message)
	assert.NotContains(t, resp.Message, "ghp_secret")
}

func TestMarshalJSON(t *testing.T) {
	err := New(CodeNotFound, "repository not found")

	data, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Equal(t, "repository not found", resp.Message)
}
