// Package trigger implements the reaction to a newly created task document:
// log the event and, when the task has no usable status, write the default
// status together with a server-assigned creation timestamp.
//
// The handler is safe under at-least-once delivery. A redelivered event whose
// write already succeeded observes the status and skips; a redelivered event
// whose write failed repeats the same conditional write.
package trigger
