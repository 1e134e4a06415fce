// Package domain contains the task record model and the rules deciding when a
// newly created task needs a default status. It is independent of Firestore,
// CloudEvents and any other delivery mechanism.
package domain
