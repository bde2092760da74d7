package journal

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"attendtrack/internal/queue"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	got    chan struct{}
}

func (s *memorySink) Record(_ context.Context, evt Event) error {
	s.mu.Lock()
	s.events = append(s.events, evt)
	s.mu.Unlock()
	s.got <- struct{}{}
	return nil
}

func TestPublishAndRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewInMemory(8)
	sink := &memorySink{got: make(chan struct{}, 8)}
	done := make(chan error, 1)
	go func() { done <- Run(ctx, q, sink) }()

	_ = q.Publish(ctx, queue.Message{Type: "other"})
	p := NewPublisher(q)
	if err := p.Publish(ctx, Event{SessionID: "s1", Op: "login", From: "login", To: "dashboard", Outcome: OutcomeAccepted}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-sink.got:
	case <-time.After(2 * time.Second):
		t.Fatal("event not recorded")
	}
	sink.mu.Lock()
	evt := sink.events[0]
	sink.mu.Unlock()
	if evt.ID == "" || evt.At.IsZero() || evt.SessionID != "s1" || evt.To != "dashboard" {
		t.Fatalf("event = %+v", evt)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestPublishDoesNotBlockOnFullQueue(t *testing.T) {
	q := queue.NewInMemory(1)
	p := NewPublisher(q)
	ctx := context.Background()
	if err := p.Publish(ctx, Event{SessionID: "s1", Op: "back"}); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- p.Publish(ctx, Event{SessionID: "s1", Op: "back"}) }()
	select {
	case err := <-done:
		if !errors.Is(err, queue.ErrFull) {
			t.Fatalf("err = %v, want queue full", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
}

func TestRepositoryRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewRepository(db)

	at := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO navigation_events")).
		WithArgs("e1", "s1", "navigate", "dashboard", "mark-attendance", "student", OutcomeRejected, "forbidden", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Record(context.Background(), Event{
		ID: "e1", SessionID: "s1", Op: "navigate", From: "dashboard", To: "mark-attendance",
		Role: "student", Outcome: OutcomeRejected, Error: "forbidden", At: at,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Record(context.Background(), Event{}); err == nil {
		t.Fatal("recorded event without ids")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRepositoryList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewRepository(db)

	at := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "session_id", "op", "from_screen", "to_screen", "role", "outcome", "error", "occurred_at"}).
		AddRow("e2", "s1", "logout", "profile", "welcome", "", OutcomeAccepted, "", at).
		AddRow("e1", "s1", "login", "login", "dashboard", "teacher", OutcomeAccepted, "", at.Add(-time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("FROM navigation_events WHERE session_id = $1 ORDER BY occurred_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("s1", 50, 0).
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), "s1", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Op != "logout" || events[1].Role != "teacher" {
		t.Fatalf("events = %+v", events)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM navigation_events ORDER BY occurred_at DESC LIMIT $1 OFFSET $2")).
		WithArgs(10, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	events, err = repo.List(context.Background(), "", 10, 5)
	if err != nil || len(events) != 0 {
		t.Fatalf("events = %v, err = %v", events, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLogSink(t *testing.T) {
	if err := (LogSink{}).Record(context.Background(), Event{Outcome: OutcomeRejected}); err != nil {
		t.Fatal(err)
	}
}
