package storage

import (
	"context"
	"errors"

	"invite-redirector/internal/domain"
	"invite-redirector/internal/logger"
)

// Chain tries its readers in order and writes through a single primary
// writer. Mirrors receive a best-effort copy of every successful write.
type Chain struct {
	readers []Reader
	writer  Writer
	mirrors []Writer
}

// NewChain creates a record store from an ordered list of read strategies.
func NewChain(writer Writer, readers ...Reader) *Chain {
	return &Chain{
		readers: readers,
		writer:  writer,
	}
}

// WithMirror appends a best-effort write mirror.
func (c *Chain) WithMirror(w Writer) *Chain {
	c.mirrors = append(c.mirrors, w)
	return c
}

// Get returns the first record any reader yields. When no reader has a
// record, a transport failure takes precedence over not-found.
func (c *Chain) Get(ctx context.Context) (*domain.InvitationRecord, error) {
	var lastErr error
	for _, r := range c.readers {
		logger.StoreCall(r.Name(), "read")
		rec, err := r.Read(ctx)
		if err == nil {
			logger.StoreResult(r.Name(), "read", nil, "url", rec.URL)
			return rec, nil
		}
		if IsNotFound(err) {
			logger.Debug("No record in read strategy", "backend", r.Name())
			continue
		}
		logger.StoreResult(r.Name(), "read", err)
		lastErr = asTransport(r.Name(), "read", err)
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &NotFoundError{Backend: "chain"}
}

// Set replaces the stored record.
func (c *Chain) Set(ctx context.Context, rec *domain.InvitationRecord) error {
	if c.writer == nil {
		return &TransportError{Backend: "chain", Op: "write", Err: errors.New("no writer configured")}
	}

	logger.StoreCall(c.writer.Name(), "write", "url", rec.URL, "is_active", rec.IsActive)
	if err := c.writer.Write(ctx, rec); err != nil {
		logger.StoreResult(c.writer.Name(), "write", err)
		return asTransport(c.writer.Name(), "write", err)
	}
	logger.StoreResult(c.writer.Name(), "write", nil)

	for _, m := range c.mirrors {
		if err := m.Write(ctx, rec); err != nil {
			logger.Warn("Failed to mirror invite record", "backend", m.Name(), "error", err)
		}
	}
	return nil
}
