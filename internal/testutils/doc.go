// Package testutils provides shared helpers for tests that talk to a
// Firestore emulator. Tests using them skip when no emulator is configured
// unless TASKTRIGGER_REQUIRE_EMULATOR is set.
//
// CI jobs start the emulator and export both variables so the store adapter
// tests run instead of skipping:
//
//	gcloud emulators firestore start --host-port=127.0.0.1:8086 &
//	FIRESTORE_EMULATOR_HOST=127.0.0.1:8086 TASKTRIGGER_REQUIRE_EMULATOR=1 go test ./...
package testutils
