package testutil

// Test user information used across all test helpers.
const (
	// TestAuthor is the default author name for test commits.
	TestAuthor = "Test User"

	// TestEmail is the default email for test commits.
	TestEmail = "test@example.com"

	// TestAuthor2 is an alternate author name for testing multi-user scenarios.
	TestAuthor2 = "Another User"

	// TestEmail2 is an alternate email for testing multi-user scenarios.
	TestEmail2 = "another@example.com"
)

// Test repository URLs.
const (
	// TestRepoURL is a sample HTTPS repository URL for testing.
	TestRepoURL = "https://github.com/test/repo.git"

	// TestRepoSSHURL is a sample SSH repository URL for testing.
	TestRepoSSHURL = "git@github.com:test/repo.git"
)

// Test file content.
const (
	// TestFileContent is sample content for README files.
	TestFileContent = "# Test Repository\n\nThis is a test repository.\n"

	// TestBranch is the branch repositories are born on (go-git's default).
	TestBranch = "master"
)
