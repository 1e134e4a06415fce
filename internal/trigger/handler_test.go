package trigger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/craftconnect/tasktrigger/internal/domain"
	"github.com/craftconnect/tasktrigger/internal/events"
	"github.com/craftconnect/tasktrigger/internal/mocks"
	"github.com/craftconnect/tasktrigger/internal/platform/logger"
	"github.com/craftconnect/tasktrigger/internal/store"
	"github.com/craftconnect/tasktrigger/internal/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commitTime = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *mocks.MockTaskStore
	handler *trigger.TaskCreationHandler
	logs    *logger.TestLogBuffer
}

func newFixture(t *testing.T, cfg trigger.Config, opts ...trigger.Option) *fixture {
	t.Helper()
	l, buf := logger.GetTestLogger(t)
	s := mocks.NewMockTaskStore()
	s.Now = func() time.Time { return commitTime }
	h, err := trigger.NewTaskCreationHandler(s, cfg, l, opts...)
	require.NoError(t, err)
	return &fixture{store: s, handler: h, logs: buf}
}

// create stores the document like a client would and returns the event snapshot.
func (f *fixture) create(t *testing.T, id string, fields map[string]any) (*domain.Task, events.Metadata) {
	t.Helper()
	path := "tasks/" + id
	f.store.Put(path, fields)
	task, err := domain.NewTask(id, path, fields)
	require.NoError(t, err)
	return task, events.Metadata{
		EventID: "evt-" + id,
		Type:    events.TypeDocumentCreated,
		Params:  map[string]string{"taskId": id},
	}
}

func (f *fixture) doc(t *testing.T, id string) map[string]any {
	t.Helper()
	doc, ok := f.store.Get("tasks/" + id)
	require.True(t, ok)
	return doc
}

func TestHandle_MissingStatusIsDefaulted(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())
	task, meta := f.create(t, "a", map[string]any{"title": "Buy milk"})

	outcome, err := f.handler.Handle(context.Background(), task, meta)

	require.NoError(t, err)
	assert.Equal(t, trigger.OutcomeDefaulted, outcome)
	assert.Equal(t, map[string]any{
		"title":     "Buy milk",
		"status":    "Pending",
		"createdAt": commitTime,
	}, f.doc(t, "a"))

	require.Equal(t, 1, f.store.CallCount())
	call := f.store.ApplyUpdateCalls[0]
	assert.Equal(t, "tasks/a", call.Path)
	require.Len(t, call.Updates, 2)
	assert.Equal(t, store.Update{Field: "status", Value: "Pending"}, call.Updates[0])
	assert.Equal(t, "createdAt", call.Updates[1].Field)
	assert.True(t, store.IsServerTimestamp(call.Updates[1].Value), "createdAt must be store-assigned")
}

func TestHandle_ExistingStatusIsUntouched(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())
	task, meta := f.create(t, "b", map[string]any{"title": "Ship report", "status": "Done"})

	outcome, err := f.handler.Handle(context.Background(), task, meta)

	require.NoError(t, err)
	assert.Equal(t, trigger.OutcomeSkipped, outcome)
	assert.Equal(t, 0, f.store.CallCount(), "no write should be issued")
	assert.Equal(t, map[string]any{"title": "Ship report", "status": "Done"}, f.doc(t, "b"))
}

func TestHandle_EmptyStatusIsDefaulted(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())
	task, meta := f.create(t, "c", map[string]any{"status": ""})

	outcome, err := f.handler.Handle(context.Background(), task, meta)

	require.NoError(t, err)
	assert.Equal(t, trigger.OutcomeDefaulted, outcome)
	assert.Equal(t, map[string]any{"status": "Pending", "createdAt": commitTime}, f.doc(t, "c"))
}

func TestHandle_FalsyValues(t *testing.T) {
	for name, status := range map[string]any{
		"null":  nil,
		"false": false,
		"zero":  int64(0),
		"0.0":   0.0,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, trigger.DefaultConfig())
			task, meta := f.create(t, "x", map[string]any{"status": status})

			outcome, err := f.handler.Handle(context.Background(), task, meta)

			require.NoError(t, err)
			assert.Equal(t, trigger.OutcomeDefaulted, outcome)
			assert.Equal(t, "Pending", f.doc(t, "x")["status"])
		})
	}
}

func TestHandle_AbsentPolicy(t *testing.T) {
	cfg := trigger.Config{DefaultStatus: domain.StatusPending, Policy: domain.StatusPolicyAbsent}

	t.Run("empty string kept", func(t *testing.T) {
		f := newFixture(t, cfg)
		task, meta := f.create(t, "c", map[string]any{"status": ""})

		outcome, err := f.handler.Handle(context.Background(), task, meta)

		require.NoError(t, err)
		assert.Equal(t, trigger.OutcomeSkipped, outcome)
		assert.Equal(t, "", f.doc(t, "c")["status"])
	})

	t.Run("missing defaulted", func(t *testing.T) {
		f := newFixture(t, cfg)
		task, meta := f.create(t, "d", map[string]any{})

		outcome, err := f.handler.Handle(context.Background(), task, meta)

		require.NoError(t, err)
		assert.Equal(t, trigger.OutcomeDefaulted, outcome)
	})
}

func TestHandle_CustomDefaultStatus(t *testing.T) {
	f := newFixture(t, trigger.Config{DefaultStatus: "Backlog", Policy: domain.StatusPolicyFalsy})
	task, meta := f.create(t, "e", map[string]any{"title": "Plan sprint"})

	_, err := f.handler.Handle(context.Background(), task, meta)

	require.NoError(t, err)
	assert.Equal(t, "Backlog", f.doc(t, "e")["status"])
}

func TestHandle_IsIdempotent(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())
	task, meta := f.create(t, "a", map[string]any{"title": "Buy milk"})

	_, err := f.handler.Handle(context.Background(), task, meta)
	require.NoError(t, err)
	afterFirst := f.doc(t, "a")

	// Redelivery observes the post-state of the first run.
	redelivered, err := domain.NewTask(task.ID, task.Path, afterFirst)
	require.NoError(t, err)
	f.store.Now = func() time.Time { return commitTime.Add(time.Minute) }

	outcome, err := f.handler.Handle(context.Background(), redelivered, meta)

	require.NoError(t, err)
	assert.Equal(t, trigger.OutcomeSkipped, outcome)
	assert.Equal(t, 1, f.store.CallCount())
	assert.Equal(t, afterFirst, f.doc(t, "a"))
}

type recordingReporter struct {
	errs []error
	tags []map[string]string
}

func (r *recordingReporter) CaptureError(ctx context.Context, err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}

func TestHandle_WriteFailure(t *testing.T) {
	reporter := &recordingReporter{}
	f := newFixture(t, trigger.DefaultConfig(), trigger.WithErrorReporter(reporter))
	task, meta := f.create(t, "a", map[string]any{"title": "Buy milk"})
	f.store.ApplyUpdatesErr = store.NewStoreError("task", "update", "write rejected", store.ErrPermissionDenied)

	outcome, err := f.handler.Handle(context.Background(), task, meta)

	require.Error(t, err)
	assert.Equal(t, trigger.OutcomeFailed, outcome)
	assert.ErrorIs(t, err, store.ErrPermissionDenied)
	assert.Equal(t, map[string]any{"title": "Buy milk"}, f.doc(t, "a"), "record keeps its pre-handler state")

	require.Len(t, reporter.errs, 1)
	assert.Equal(t, "a", reporter.tags[0]["task_id"])
	assert.Equal(t, "evt-a", reporter.tags[0]["event_id"])

	// A retry after the failure repeats the same conditional write.
	f.store.ApplyUpdatesErr = nil
	outcome, err = f.handler.Handle(context.Background(), task, meta)
	require.NoError(t, err)
	assert.Equal(t, trigger.OutcomeDefaulted, outcome)
	assert.Equal(t, 2, f.store.CallCount())
	assert.Equal(t, f.store.ApplyUpdateCalls[0].Updates, f.store.ApplyUpdateCalls[1].Updates)
}

func TestHandle_DeletedBeforeWrite(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())
	task, err := domain.NewTask("gone", "tasks/gone", map[string]any{})
	require.NoError(t, err)

	_, err = f.handler.Handle(context.Background(), task, events.Metadata{EventID: "evt-gone"})

	assert.True(t, store.IsNotFoundError(err))
}

func TestHandle_CancelledContext(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())
	task, meta := f.create(t, "a", map[string]any{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.handler.Handle(ctx, task, meta)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, f.doc(t, "a"), "status")
}

func TestHandle_Logging(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())
	task, meta := f.create(t, "abc123", map[string]any{"title": "Buy milk"})

	_, err := f.handler.Handle(context.Background(), task, meta)
	require.NoError(t, err)

	logger.AssertLogField(t, f.logs, "message", "new task created")
	logger.AssertLogField(t, f.logs, "task_id", "abc123")
	logger.AssertLogField(t, f.logs, "event_id", "evt-abc123")

	entries, err := f.logs.GetLogEntries()
	require.NoError(t, err)
	var fields map[string]interface{}
	for _, entry := range entries {
		if entry["message"] == "task data" {
			fields, _ = entry["fields"].(map[string]interface{})
		}
	}
	require.NotNil(t, fields, "raw field mapping should be logged")
	assert.Equal(t, "Buy milk", fields["title"])
}

func TestHandleEvent(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())
	task, meta := f.create(t, "a", map[string]any{})

	require.NoError(t, f.handler.HandleEvent(context.Background(), &events.TaskCreatedEvent{Metadata: meta, Task: task}))
	assert.Equal(t, "Pending", f.doc(t, "a")["status"])

	err := f.handler.HandleEvent(context.Background(), &events.TaskCreatedEvent{Metadata: meta})
	assert.ErrorIs(t, err, events.ErrInvalidPayload)
}

func TestNewTaskCreationHandler_Validation(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	s := mocks.NewMockTaskStore()

	tests := []struct {
		name  string
		store store.TaskStore
		cfg   trigger.Config
	}{
		{"nil store", nil, trigger.DefaultConfig()},
		{"empty status", s, trigger.Config{Policy: domain.StatusPolicyFalsy}},
		{"bad policy", s, trigger.Config{DefaultStatus: "Pending", Policy: "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := trigger.NewTaskCreationHandler(tt.store, tt.cfg, l)
			assert.Error(t, err)
			assert.Nil(t, h)
		})
	}

	_, err := trigger.NewTaskCreationHandler(s, trigger.DefaultConfig(), nil)
	assert.Error(t, err)

	_, err = trigger.NewTaskCreationHandler(s, trigger.Config{DefaultStatus: "Pending", Policy: "sometimes"}, l)
	assert.True(t, errors.Is(err, domain.ErrInvalidStatusPolicy))
}

func TestPlan(t *testing.T) {
	f := newFixture(t, trigger.DefaultConfig())

	withStatus, err := domain.NewTask("a", "tasks/a", map[string]any{"status": "InProgress"})
	require.NoError(t, err)
	assert.Nil(t, f.handler.Plan(withStatus))

	without, err := domain.NewTask("b", "tasks/b", nil)
	require.NoError(t, err)
	assert.Equal(t, trigger.DefaultStatusPatch(domain.StatusPending), f.handler.Plan(without))
}
