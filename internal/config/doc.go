// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It provides
// type-safe access to the settings needed by the trigger handler, the
// Firestore adapter and the self-hosted receiver.
package config
