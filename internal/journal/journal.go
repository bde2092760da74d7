// Package journal records every navigation operation a session attempts.
// Events travel over a queue and are written by a consumer, so recording
// never slows down or fails a user request.
package journal

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"attendtrack/internal/queue"
)

// MessageType tags journal messages on the queue.
const MessageType = "navigation"

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Event is one navigation operation and its result.
type Event struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Op        string    `json:"op"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Role      string    `json:"role,omitempty"`
	Outcome   string    `json:"outcome"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// Sink stores journal events.
type Sink interface {
	Record(ctx context.Context, evt Event) error
}

// Publisher puts events on a queue.
type Publisher struct {
	q queue.Queue
}

// tryPublisher is implemented by queues that can refuse instead of block.
type tryPublisher interface {
	TryPublish(msg queue.Message) error
}

// NewPublisher returns a publisher writing to q.
func NewPublisher(q queue.Queue) *Publisher {
	return &Publisher{q: q}
}

// Publish fills in ID and time when missing and enqueues the event. A
// bounded in-process queue that is full drops the event with queue.ErrFull
// rather than stalling the caller.
func (p *Publisher) Publish(ctx context.Context, evt Event) error {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := queue.Message{Type: MessageType, Body: body}
	if tp, ok := p.q.(tryPublisher); ok {
		return tp.TryPublish(msg)
	}
	return p.q.Publish(ctx, msg)
}

// Run consumes journal messages until ctx ends, handing each to sink.
// Failed records are logged and skipped.
func Run(ctx context.Context, q queue.Queue, sink Sink) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return err
	}
	for msg := range messages {
		if msg.Type != MessageType {
			continue
		}
		var evt Event
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			log.Printf("journal: bad event: %v", err)
			continue
		}
		if err := sink.Record(ctx, evt); err != nil {
			log.Printf("journal: record %s failed: %v", evt.ID, err)
		}
	}
	return nil
}

// LogSink writes events to the process log.
type LogSink struct{}

// Record logs evt and never fails.
func (LogSink) Record(_ context.Context, evt Event) error {
	if evt.Outcome == OutcomeRejected {
		log.Printf("journal: session %s %s %s -> %s rejected: %s", evt.SessionID, evt.Op, evt.From, evt.To, evt.Error)
		return nil
	}
	log.Printf("journal: session %s %s %s -> %s", evt.SessionID, evt.Op, evt.From, evt.To)
	return nil
}
