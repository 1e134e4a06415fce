// Package firestore provides the Cloud Firestore implementation of the
// storage interfaces defined in the internal/store package. It handles client
// construction, translation of store updates into Firestore field transforms,
// and mapping of gRPC status codes onto store errors.
package firestore
