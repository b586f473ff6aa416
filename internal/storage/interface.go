package storage

import (
	"context"

	"invite-redirector/internal/domain"
)

// Reader is one read strategy for the invitation record.
// Implementations return *NotFoundError when nothing is stored and
// *TransportError when the backend could not be consulted.
type Reader interface {
	Name() string
	Read(ctx context.Context) (*domain.InvitationRecord, error)
}

// Writer replaces the stored invitation record wholesale.
type Writer interface {
	Name() string
	Write(ctx context.Context, rec *domain.InvitationRecord) error
}

// Backend is a store that can both read and write the record.
type Backend interface {
	Reader
	Writer
}

// RecordStore is the backend-agnostic view used by the invite policy.
// Last write wins; there is no optimistic concurrency.
type RecordStore interface {
	Get(ctx context.Context) (*domain.InvitationRecord, error)
	Set(ctx context.Context, rec *domain.InvitationRecord) error
}
