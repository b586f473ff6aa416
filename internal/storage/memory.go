package storage

import (
	"context"
	"sync"

	"invite-redirector/internal/domain"
)

// MemoryStore keeps the record in process memory.
// It is used for local runs and tests; failures can be injected.
type MemoryStore struct {
	mu       sync.RWMutex
	rec      *domain.InvitationRecord
	readErr  error
	writeErr error
	writes   int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Name() string {
	return "memory"
}

func (m *MemoryStore) Read(ctx context.Context) (*domain.InvitationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.readErr != nil {
		return nil, &TransportError{Backend: m.Name(), Op: "read", Err: m.readErr}
	}
	if m.rec == nil {
		return nil, &NotFoundError{Backend: m.Name(), Key: "memory"}
	}
	cp := *m.rec
	return &cp, nil
}

func (m *MemoryStore) Write(ctx context.Context, rec *domain.InvitationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return &TransportError{Backend: m.Name(), Op: "write", Err: m.writeErr}
	}
	cp := *rec
	m.rec = &cp
	m.writes++
	return nil
}

// Get and Set let a MemoryStore stand in directly for a RecordStore.
func (m *MemoryStore) Get(ctx context.Context) (*domain.InvitationRecord, error) {
	return m.Read(ctx)
}

func (m *MemoryStore) Set(ctx context.Context, rec *domain.InvitationRecord) error {
	return m.Write(ctx, rec)
}

// FailReads makes subsequent reads fail with err. Pass nil to clear.
func (m *MemoryStore) FailReads(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

// FailWrites makes subsequent writes fail with err. Pass nil to clear.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// Writes returns the number of successful writes.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
