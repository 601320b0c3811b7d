package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"creaturecore/internal/blob"
)

// MemorySink collects delivered events in order. Tests and single-process
// hosts use it to observe transitions.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink { return &MemorySink{} }

var _ NotificationSink = (*MemorySink)(nil)

// Notify appends the event to the sink.
func (s *MemorySink) Notify(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a copy of all delivered events in delivery order.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// JournalSink appends each event as a JSON object to a blob store. Delivery
// failures are logged and dropped; the registry state machine never depends
// on journal durability.
type JournalSink struct {
	store  blob.Store
	logger Logger
	mu     sync.Mutex
	seq    uint64
}

// NewJournalSink wraps a blob store as a notification sink. A nil logger
// silences delivery failures.
func NewJournalSink(store blob.Store, logger Logger) *JournalSink {
	if logger == nil {
		logger = noopLogger{}
	}
	return &JournalSink{store: store, logger: logger}
}

var _ NotificationSink = (*JournalSink)(nil)

// Notify serializes the event and writes it under a monotonic journal key.
func (s *JournalSink) Notify(ctx context.Context, event Event) {
	s.mu.Lock()
	seq := s.seq
	s.seq++
	s.mu.Unlock()

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("encode journal event", "kind", event.Kind, "error", err)
		return
	}
	key := fmt.Sprintf("events/%020d-%s.json", seq, event.Kind)
	if _, err := s.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{ContentType: "application/json"}); err != nil {
		s.logger.Error("write journal event", "key", key, "error", err)
	}
}
