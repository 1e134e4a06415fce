package domain

import (
	"fmt"
	"math"
	"strings"
)

// Field names of a task record that the trigger reads or writes.
const (
	FieldStatus    = "status"
	FieldCreatedAt = "createdAt"
)

// TaskStatus is the workflow state a client assigns to a task.
// Any non-empty value is accepted; the trigger only supplies the default.
type TaskStatus string

// StatusPending is assigned to tasks created without a status.
const StatusPending TaskStatus = "Pending"

// StatusPolicy decides which stored status values count as missing.
type StatusPolicy string

const (
	// StatusPolicyFalsy treats absent, null, "", false, zero and NaN as missing.
	StatusPolicyFalsy StatusPolicy = "falsy"
	// StatusPolicyAbsent treats only absent and null values as missing.
	StatusPolicyAbsent StatusPolicy = "absent"
)

// ParseStatusPolicy converts a configuration value into a StatusPolicy.
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch p := StatusPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case StatusPolicyFalsy, StatusPolicyAbsent:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatusPolicy, s)
	}
}

// Task is a read-only view of a task record as delivered by a creation event.
// Fields holds every stored field, including ones this package knows nothing about.
type Task struct {
	ID     string         `json:"id"`
	Path   string         `json:"path"`
	Fields map[string]any `json:"fields"`
}

// NewTask builds a Task, normalizing a nil field map to an empty one.
// Returns an error if validation fails.
func NewTask(id, path string, fields map[string]any) (*Task, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	task := &Task{ID: id, Path: path, Fields: fields}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyTaskID
	}
	return nil
}

// Status returns the raw stored status and whether the field is present.
func (t *Task) Status() (any, bool) {
	v, ok := t.Fields[FieldStatus]
	return v, ok
}

// NeedsDefaultStatus reports whether the task must receive a default status
// under the given policy.
func (t *Task) NeedsDefaultStatus(policy StatusPolicy) bool {
	return NeedsDefaultStatus(t.Fields, policy)
}

// NeedsDefaultStatus reports whether fields lack a usable status under policy.
// Unknown policies behave like StatusPolicyFalsy.
func NeedsDefaultStatus(fields map[string]any, policy StatusPolicy) bool {
	v, ok := fields[FieldStatus]
	if !ok || v == nil {
		return true
	}
	if policy == StatusPolicyAbsent {
		return false
	}
	return !IsTruthy(v)
}

// IsTruthy reports whether v is a truthy document value. Empty strings,
// false, numeric zero, NaN and nil are falsy; containers, timestamps and
// references are always truthy, even when empty.
func IsTruthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}
