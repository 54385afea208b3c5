package schedule

import (
	"testing"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"
)

func TestRemainingCountsDown(t *testing.T) {
	ts := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	now := ts.Add(100 * time.Second)
	if got := Remaining(ts, now); got != 14300*time.Second {
		t.Fatalf("expected 14300s, got %v", got)
	}
}

func TestRemainingFlooredAtZero(t *testing.T) {
	ts := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	now := ts.Add(14401 * time.Second)
	if got := Remaining(ts, now); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestNextDelayStaleUsesShortRetry(t *testing.T) {
	if got := NextDelay(0); got != 30*time.Second {
		t.Fatalf("stale snapshot must retry in 30s, got %v", got)
	}
	if got := NextDelay(5 * time.Minute); got != 5*time.Minute {
		t.Fatalf("fresh snapshot keeps its countdown, got %v", got)
	}
}

func TestFromSnapshot(t *testing.T) {
	snap := &domain.Snapshot{Timestamp: "2026-02-01T00:00:00"}
	now := time.Date(2026, 2, 1, 1, 0, 0, 0, time.UTC)
	if got := FromSnapshot(snap, now); got != 14400*time.Second-time.Hour {
		t.Fatalf("unexpected remaining: %v", got)
	}
}

func TestFromSnapshotUnparseableIsStale(t *testing.T) {
	snap := &domain.Snapshot{Timestamp: "not-a-time"}
	if got := FromSnapshot(snap, time.Now()); got != 0 {
		t.Fatalf("expected stale countdown, got %v", got)
	}
	if got := FromSnapshot(nil, time.Now()); got != 0 {
		t.Fatalf("nil snapshot must be stale, got %v", got)
	}
}
