// Package ciutil centralizes environment detection for tests and tooling:
// whether the process runs in CI and whether a Firestore emulator is
// reachable for integration tests.
package ciutil
