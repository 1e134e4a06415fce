// Package mocks provides centralized mock implementations for testing.
//
// Mocks expose function fields for per-test behavior and fall back to a small
// in-memory implementation otherwise, so handler tests can assert on the
// writes they would issue without a live Firestore instance.
//
// Usage:
//
//	import "github.com/craftconnect/tasktrigger/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    tasks := mocks.NewMockTaskStore()
//	    tasks.Put("tasks/abc", map[string]any{"title": "Buy milk"})
//	    tasks.ApplyUpdatesErr = store.ErrUnavailable
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
