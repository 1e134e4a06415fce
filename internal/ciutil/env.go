package ciutil

import (
	"os"
	"strings"
)

// Common environment variable names used across the codebase.
const (
	// CI environment detection variables
	EnvCI              = "CI"
	EnvGitHubActions   = "GITHUB_ACTIONS"
	EnvGitHubWorkspace = "GITHUB_WORKSPACE"
	EnvGitLabCI        = "GITLAB_CI"
	EnvJenkinsURL      = "JENKINS_URL"
	EnvTravisCI        = "TRAVIS"
	EnvCircleCI        = "CIRCLECI"

	// EnvFirestoreEmulatorHost is honored by the Firestore client library itself.
	EnvFirestoreEmulatorHost = "FIRESTORE_EMULATOR_HOST"
	// EnvRequireEmulator turns skipped emulator tests into failures.
	EnvRequireEmulator = "TASKTRIGGER_REQUIRE_EMULATOR"
)

var ciVars = []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvTravisCI, EnvCircleCI}

// IsCI returns true if the current environment is a CI environment.
func IsCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// IsGitHubActions returns true if the current environment is GitHub Actions.
func IsGitHubActions() bool {
	return os.Getenv(EnvGitHubActions) != "" && os.Getenv(EnvGitHubWorkspace) != ""
}

// EmulatorHost returns the configured Firestore emulator address, or "".
func EmulatorHost() string {
	return strings.TrimSpace(os.Getenv(EnvFirestoreEmulatorHost))
}

// ShouldSkipEmulatorTest reports whether emulator-backed tests should be
// skipped because no emulator is configured.
func ShouldSkipEmulatorTest() bool {
	return EmulatorHost() == ""
}

// EmulatorRequired reports whether a missing emulator must fail the run
// instead of skipping. It is set explicitly, since not every CI job starts one.
func EmulatorRequired() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvRequireEmulator))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
