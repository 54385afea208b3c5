package job

import (
	"context"
	"log"
	"time"

	"github.com/yuqiaowu/news-analyse/internal/domain"
	"github.com/yuqiaowu/news-analyse/internal/schedule"

	"go.opentelemetry.io/otel/trace"
)

type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*domain.Snapshot, error)
}

// RefreshJob rebuilds the analysis snapshot on the refresh interval. A
// failed cycle retries on the short stale delay instead of waiting a full
// interval.
type RefreshJob struct {
	tracer     trace.Tracer
	refresher  SnapshotRefresher
	interval   time.Duration
	retryDelay time.Duration
}

func NewRefreshJob(tracer trace.Tracer, refresher SnapshotRefresher, interval time.Duration) *RefreshJob {
	if interval <= 0 {
		interval = schedule.RefreshInterval
	}
	return &RefreshJob{
		tracer:     tracer,
		refresher:  refresher,
		interval:   interval,
		retryDelay: schedule.StaleRetryDelay,
	}
}

func (j *RefreshJob) Start(ctx context.Context) {
	if j.refresher == nil {
		log.Println("Snapshot refresh job disabled: no refresher")
		<-ctx.Done()
		return
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timer.Reset(j.runOnce(ctx))
		}
	}
}

// runOnce executes one refresh cycle and returns the delay until the next.
func (j *RefreshJob) runOnce(ctx context.Context) time.Duration {
	_, span := j.tracer.Start(ctx, "refresh-job.run-once")
	defer span.End()

	snapshot, err := j.refresher.Refresh(ctx)
	if err != nil {
		span.RecordError(err)
		log.Printf("Snapshot refresh error, retrying in %s: %v", j.retryDelay, err)
		return j.retryDelay
	}
	log.Printf("Snapshot refreshed: %d coins, %d news items", len(snapshot.Coins), len(snapshot.NewsAnalysis))
	return j.interval
}
