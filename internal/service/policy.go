package service

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// IsExpired reports whether more than ttlDays have elapsed since createdAt.
// Exactly ttlDays is not yet expired.
func IsExpired(createdAt, now time.Time, ttlDays int) bool {
	return now.Sub(createdAt) > time.Duration(ttlDays)*day
}

// DaysLeft returns ttlDays minus the whole days elapsed since createdAt.
// It goes negative once the link is past expiry.
func DaysLeft(createdAt, now time.Time, ttlDays int) int {
	elapsed := now.Sub(createdAt).Hours() / 24
	return ttlDays - int(math.Floor(elapsed))
}
