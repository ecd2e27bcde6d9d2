package queue

import "context"

// Client dispatches report jobs to a queue backend. The reports service
// holds a nil Client when no queue is configured and processes in-process
// instead.
type Client interface {
	Send(ctx context.Context, msg Message) error
}
