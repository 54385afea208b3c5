// Package schedule derives the refresh countdown from a snapshot timestamp.
// Both the dashboard and the producer job use it, so the two refresh paths
// age a snapshot identically.
package schedule

import (
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"
)

const (
	// RefreshInterval is how long one snapshot stays fresh.
	RefreshInterval = 14400 * time.Second
	// StaleRetryDelay is the short delay used when a snapshot is already
	// expired on arrival. Refetching immediately would hammer a static
	// file that is not going to change in the next second.
	StaleRetryDelay = 30 * time.Second
)

// Remaining returns the countdown left on a snapshot produced at ts,
// evaluated at now. Never negative.
func Remaining(ts, now time.Time) time.Duration {
	left := RefreshInterval - now.Sub(ts)
	if left < 0 {
		return 0
	}
	return left
}

// NextDelay converts a remaining countdown into the delay before the next
// refetch: an expired snapshot waits the short retry delay instead of zero.
func NextDelay(remaining time.Duration) time.Duration {
	if remaining <= 0 {
		return StaleRetryDelay
	}
	return remaining
}

// FromSnapshot computes the countdown for a snapshot, evaluated at now. An
// unparseable or missing timestamp counts as stale.
func FromSnapshot(snap *domain.Snapshot, now time.Time) time.Duration {
	if snap == nil {
		return 0
	}
	ts, err := snap.Time()
	if err != nil {
		return 0
	}
	return Remaining(ts, now)
}
