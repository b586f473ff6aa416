package domain

import "time"

// InvitationRecord is the single persisted redirect target.
type InvitationRecord struct {
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
}

// EmptyRecord returns the record used when nothing is stored.
func EmptyRecord(now time.Time) *InvitationRecord {
	return &InvitationRecord{
		URL:       "",
		CreatedAt: now,
		IsActive:  false,
	}
}

// HasURL reports whether an invitation is configured.
func (r *InvitationRecord) HasURL() bool {
	return r != nil && r.URL != ""
}

// Deactivated returns a copy of the record with IsActive cleared.
func (r *InvitationRecord) Deactivated() *InvitationRecord {
	cp := *r
	cp.IsActive = false
	return &cp
}
