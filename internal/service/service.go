package service

import (
	"context"

	"invite-redirector/internal/domain"
)

// InviteService owns the invitation record lifecycle.
type InviteService interface {
	// Load returns the stored record, or the empty record when nothing is
	// stored or the store cannot be read.
	Load(ctx context.Context) *domain.InvitationRecord
	// Current returns the record with effective activity for admin reads.
	Current(ctx context.Context) (*domain.InvitationRecord, error)
	Reconcile(ctx context.Context) *ReconcileResult
	Replace(ctx context.Context, newURL string) (*domain.InvitationRecord, error)
	ValidateStored(ctx context.Context) (*domain.ValidationResult, error)
	Check(ctx context.Context) *domain.CheckResult
}

// Validator probes an invitation link.
type Validator interface {
	Validate(ctx context.Context, url string) bool
}

// Notifier emits the canned invitation events. Results are informational.
type Notifier interface {
	LinkExpired(ctx context.Context, url string, daysLeft int) bool
	LinkInvalid(ctx context.Context, url string) bool
	LinkUpdated(ctx context.Context, oldURL, newURL string) bool
}
