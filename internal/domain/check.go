package domain

import "time"

// CheckAction names the transition applied by a reconcile pass.
type CheckAction string

const (
	CheckActionNone               CheckAction = "none"
	CheckActionExpiringWarning    CheckAction = "expiring_warning"
	CheckActionDeactivatedInvalid CheckAction = "deactivated_invalid"
	CheckActionDeactivatedExpired CheckAction = "deactivated_expired"
)

// CheckResult is reported by the scheduled invite check.
type CheckResult struct {
	Checked          bool        `json:"checked"`
	Message          string      `json:"message,omitempty"`
	DaysLeft         int         `json:"daysLeft"`
	IsValid          bool        `json:"isValid"`
	IsActive         bool        `json:"isActive"`
	NotificationSent bool        `json:"notificationSent"`
	Action           CheckAction `json:"action"`
	Timestamp        time.Time   `json:"timestamp"`
}

// ValidationResult is reported by an on-demand validation of the stored link.
type ValidationResult struct {
	URL     string `json:"url"`
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}
