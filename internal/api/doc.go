// Package api exposes the task trigger over plain HTTP for self-hosted
// deployments (Cloud Run behind an Eventarc trigger, or a local receiver).
//
// Incoming requests are parsed as CloudEvents in either binary or structured
// mode, decoded into TaskCreatedEvents and dispatched through an
// events.EventEmitter. Status codes tell the delivering platform whether to
// retry: malformed or misrouted events are rejected with 400 and are not
// retried, handler failures return 500 so the event is redelivered.
package api
