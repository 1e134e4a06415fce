// Package events turns platform notifications into typed task events and
// dispatches them to handlers.
//
// The primary components are:
// - TaskCreatedEvent: a decoded Firestore "document created" notification
// - Decoder: converts a CloudEvent carrying DocumentEventData into a TaskCreatedEvent
// - PathPattern: matches document paths such as tasks/{taskId} and extracts wildcards
// - EventHandler / EventEmitter: loose coupling between the transport and the handlers
package events
