// Command emit-task-event sends a synthetic Firestore document created
// CloudEvent to a running receiver, for exercising the trigger locally.
//
// Usage:
//
//	emit-task-event -document tasks/abc123 -fields '{"title":"Buy milk"}' -target http://localhost:8080/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/craftconnect/tasktrigger/internal/events"
	"github.com/google/uuid"
)

type options struct {
	Target    string
	Document  string
	Fields    map[string]any
	ProjectID string
	Database  string
	EventID   string
	Timeout   time.Duration
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}

	e, err := events.NewDocumentCreatedEvent(events.CreatedEventSpec{
		ID:        opts.EventID,
		ProjectID: opts.ProjectID,
		Database:  opts.Database,
		Document:  opts.Document,
		Fields:    opts.Fields,
	})
	if err != nil {
		return err
	}

	status, err := send(ctx, opts, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "sent event %s for %s: HTTP %d\n", e.ID(), opts.Document, status)
	return nil
}

func parseFlags(args []string, out io.Writer) (*options, error) {
	fs := flag.NewFlagSet("emit-task-event", flag.ContinueOnError)
	fs.SetOutput(out)

	target := fs.String("target", "http://localhost:8080/", "Receiver URL.")
	document := fs.String("document", "", "Document path relative to the database root, e.g. tasks/abc123.")
	fields := fs.String("fields", "{}", "Document fields as a JSON object.")
	project := fs.String("project", "local-project", "Project id used in the event source.")
	database := fs.String("database", "(default)", "Firestore database id.")
	eventID := fs.String("id", "", "Event id. A random UUID when empty.")
	timeout := fs.Duration("timeout", 10*time.Second, "Send timeout.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *document == "" {
		if fs.NArg() == 0 {
			fs.Usage()
			return nil, errors.New("a document path is required")
		}
		*document = fs.Arg(0)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(*fields), &parsed); err != nil {
		return nil, fmt.Errorf("invalid -fields JSON object: %w", err)
	}

	id := *eventID
	if id == "" {
		id = uuid.NewString()
	}

	return &options{
		Target:    *target,
		Document:  *document,
		Fields:    parsed,
		ProjectID: *project,
		Database:  *database,
		EventID:   id,
		Timeout:   *timeout,
	}, nil
}

// send delivers e in binary mode and returns the receiver's HTTP status.
func send(ctx context.Context, opts *options, e cloudevents.Event) (int, error) {
	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return 0, fmt.Errorf("failed to create cloudevents client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	ctx = cloudevents.ContextWithTarget(ctx, opts.Target)

	res := c.Send(ctx, e)

	var httpResult *cehttp.Result
	status := 0
	if cloudevents.ResultAs(res, &httpResult) {
		status = httpResult.StatusCode
	}
	if !cloudevents.IsACK(res) {
		return status, fmt.Errorf("receiver rejected event %s: %w", e.ID(), res)
	}
	return status, nil
}
