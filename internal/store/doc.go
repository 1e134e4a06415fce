// Package store defines interfaces for data persistence operations.
// These interfaces abstract the document database from the trigger logic,
// so the handler can be exercised against an in-memory fake while production
// code writes to Firestore.
package store
