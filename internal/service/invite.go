package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"invite-redirector/internal/domain"
	"invite-redirector/internal/logger"
	"invite-redirector/internal/storage"
)

var (
	ErrURLRequired = errors.New("url is required")
	ErrInvalidURL  = errors.New("invalid url format")
	ErrNoInvite    = errors.New("no invite link to validate")
)

// Policy holds the lifecycle windows in days.
type Policy struct {
	TTLDays     int
	WarningDays int
}

// ReconcileResult is the outcome of one reconcile pass.
type ReconcileResult struct {
	Record           *domain.InvitationRecord // effective record after the pass
	Redirectable     bool
	Action           domain.CheckAction
	DaysLeft         int
	IsValid          bool
	NotificationSent bool
}

type inviteService struct {
	store     storage.RecordStore
	validator Validator
	notifier  Notifier
	policy    Policy
	now       func() time.Time
}

// NewInviteService creates the invite policy service.
func NewInviteService(store storage.RecordStore, validator Validator, notifier Notifier, policy Policy) InviteService {
	return newInviteService(store, validator, notifier, policy, time.Now)
}

func newInviteService(store storage.RecordStore, validator Validator, notifier Notifier, policy Policy, now func() time.Time) *inviteService {
	return &inviteService{
		store:     store,
		validator: validator,
		notifier:  notifier,
		policy:    policy,
		now:       now,
	}
}

func (s *inviteService) Load(ctx context.Context) *domain.InvitationRecord {
	rec, err := s.store.Get(ctx)
	if err != nil {
		if !storage.IsNotFound(err) {
			logger.WarnContext(ctx, "Failed to read invite record, using empty record", "error", err)
		}
		return domain.EmptyRecord(s.now())
	}
	return rec
}

func (s *inviteService) Current(ctx context.Context) (*domain.InvitationRecord, error) {
	rec, err := s.store.Get(ctx)
	if err != nil {
		if storage.IsNotFound(err) {
			return domain.EmptyRecord(s.now()), nil
		}
		return nil, fmt.Errorf("failed to read invite record: %w", err)
	}
	rec.IsActive = rec.IsActive && !IsExpired(rec.CreatedAt, s.now(), s.policy.TTLDays)
	return rec, nil
}

func (s *inviteService) Reconcile(ctx context.Context) *ReconcileResult {
	return s.reconcile(ctx, s.Load(ctx))
}

// reconcile applies the lifecycle rules in order: inactive records are left
// alone, expiry is checked before any probe, the warning window only warns,
// and a failed probe deactivates.
func (s *inviteService) reconcile(ctx context.Context, rec *domain.InvitationRecord) *ReconcileResult {
	now := s.now()
	res := &ReconcileResult{
		Record:   rec,
		Action:   domain.CheckActionNone,
		DaysLeft: DaysLeft(rec.CreatedAt, now, s.policy.TTLDays),
	}

	if !rec.IsActive || !rec.HasURL() {
		return res
	}

	if IsExpired(rec.CreatedAt, now, s.policy.TTLDays) {
		logger.InfoContext(ctx, "Invite link expired, deactivating", "url", rec.URL, "created_at", rec.CreatedAt)
		res.Record = s.deactivate(ctx, rec)
		res.NotificationSent = s.notifier.LinkExpired(ctx, rec.URL, 0)
		res.Action = domain.CheckActionDeactivatedExpired
		return res
	}

	if res.DaysLeft <= s.policy.WarningDays {
		logger.InfoContext(ctx, "Invite link expiring soon", "url", rec.URL, "days_left", res.DaysLeft)
		res.NotificationSent = s.notifier.LinkExpired(ctx, rec.URL, res.DaysLeft)
		res.Action = domain.CheckActionExpiringWarning
	}

	res.IsValid = s.validator.Validate(ctx, rec.URL)
	if !res.IsValid {
		logger.InfoContext(ctx, "Invite link failed validation, deactivating", "url", rec.URL)
		res.Record = s.deactivate(ctx, rec)
		if s.notifier.LinkInvalid(ctx, rec.URL) {
			res.NotificationSent = true
		}
		res.Action = domain.CheckActionDeactivatedInvalid
		return res
	}

	res.Redirectable = true
	return res
}

// deactivate persists isActive=false. A failed write is logged; the record
// is still treated as inactive for the current request.
func (s *inviteService) deactivate(ctx context.Context, rec *domain.InvitationRecord) *domain.InvitationRecord {
	off := rec.Deactivated()
	if err := s.store.Set(ctx, off); err != nil {
		logger.ErrorContext(ctx, "Failed to deactivate invite record", "url", rec.URL, "error", err)
	}
	return off
}

// ParseInviteURL checks that raw is a non-empty absolute URL.
func ParseInviteURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrURLRequired
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return ErrInvalidURL
	}
	return nil
}

func (s *inviteService) Replace(ctx context.Context, newURL string) (*domain.InvitationRecord, error) {
	if err := ParseInviteURL(newURL); err != nil {
		return nil, err
	}

	old := s.Load(ctx)
	rec := &domain.InvitationRecord{
		URL:       newURL,
		CreatedAt: s.now().UTC(),
		IsActive:  true,
	}
	if err := s.store.Set(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save invite record: %w", err)
	}
	logger.InfoContext(ctx, "Invite link replaced", "old_url", old.URL, "new_url", newURL)

	if old.URL != "" && old.URL != newURL {
		s.notifier.LinkUpdated(ctx, old.URL, newURL)
	}
	return rec, nil
}

func (s *inviteService) ValidateStored(ctx context.Context) (*domain.ValidationResult, error) {
	rec, err := s.store.Get(ctx)
	if err != nil && !storage.IsNotFound(err) {
		return nil, fmt.Errorf("failed to read invite record: %w", err)
	}
	if rec == nil || strings.TrimSpace(rec.URL) == "" {
		return nil, ErrNoInvite
	}

	isValid := s.validator.Validate(ctx, rec.URL)

	updated := *rec
	updated.IsActive = isValid
	if err := s.store.Set(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save invite record: %w", err)
	}

	result := &domain.ValidationResult{URL: rec.URL, IsValid: isValid}
	if isValid {
		result.Message = "Link is valid and active"
	} else {
		result.Message = "Link is invalid or broken, marked as inactive"
		s.notifier.LinkInvalid(ctx, rec.URL)
	}
	return result, nil
}

func (s *inviteService) Check(ctx context.Context) *domain.CheckResult {
	rec := s.Load(ctx)
	if !rec.HasURL() {
		return &domain.CheckResult{
			Checked:   false,
			Message:   "No invite link to check",
			Action:    domain.CheckActionNone,
			Timestamp: s.now().UTC(),
		}
	}

	res := s.reconcile(ctx, rec)
	return &domain.CheckResult{
		Checked:          true,
		DaysLeft:         res.DaysLeft,
		IsValid:          res.IsValid,
		IsActive:         res.Record.IsActive,
		NotificationSent: res.NotificationSent,
		Action:           res.Action,
		Timestamp:        s.now().UTC(),
	}
}
