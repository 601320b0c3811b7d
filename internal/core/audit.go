package core

import (
	"context"
	"sync"
)

// MemoryAuditRecorder retains audit entries in order of completion.
type MemoryAuditRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// NewMemoryAuditRecorder returns an empty recorder.
func NewMemoryAuditRecorder() *MemoryAuditRecorder { return &MemoryAuditRecorder{} }

var _ AuditRecorder = (*MemoryAuditRecorder)(nil)

// Record appends the entry to the trail.
func (r *MemoryAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// Entries returns a copy of the recorded trail.
func (r *MemoryAuditRecorder) Entries() []AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
