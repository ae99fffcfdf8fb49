// Package errors provides the structured error system shared by the gitsync
// packages. It extends Go's standard error handling with string error codes,
// retry classification, context preservation, and JSON serialization so that
// callers can make retry and reporting decisions without string matching.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists and cannot be created again.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates a resource state conflict that prevents the
	// operation, such as uncommitted changes blocking a push.
	CodeConflict ErrorCode = "CONFLICT"

	// Permission errors.

	// CodeUnauthorized indicates the request lacks valid authentication credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the authenticated user lacks permission for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Repository state errors.

	// CodeMergeInProgress indicates an unresolved merge blocks the operation.
	// The merge must be resolved or aborted before retrying.
	CodeMergeInProgress ErrorCode = "MERGE_IN_PROGRESS"

	// CodeDetachedHead indicates the repository HEAD is not on a branch, which
	// disables branch-relative operations.
	CodeDetachedHead ErrorCode = "DETACHED_HEAD"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeRateLimit indicates the rate limit has been exceeded.
	CodeRateLimit ErrorCode = "RATE_LIMIT_EXCEEDED"

	// CodeFilesystem indicates a filesystem operation failed. Network mounts
	// with non-POSIX semantics are the usual producer of this code.
	CodeFilesystem ErrorCode = "FILESYSTEM_ERROR"

	// System errors.

	// CodeInternal indicates an internal invariant was violated, such as an
	// object missing from the store.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnavailable indicates the service is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
