package workers

import (
	"context"
	"log"
	"time"

	"github.com/Aadthiyan/Shikshlokam-sub000/internal/core/domain"
)

type StatsRefresher interface {
	Refresh(ctx context.Context, userID string) (*domain.UserStats, error)
}

type UserLister interface {
	ListIDs(ctx context.Context) ([]string, error)
}

type RefreshJob struct {
	UserID string
}

// RefreshWorker rebuilds cached user summaries in the background. It
// drains targeted jobs enqueued after failed inline refreshes, and on a
// timer it sweeps every user, so a summary that missed its refresh heals
// without intervention.
type RefreshWorker struct {
	stats      StatsRefresher
	users      UserLister
	jobs       chan RefreshJob
	sweepEvery time.Duration
}

func NewRefreshWorker(stats StatsRefresher, users UserLister, sweepEvery time.Duration) *RefreshWorker {
	if sweepEvery <= 0 {
		sweepEvery = time.Hour
	}
	return &RefreshWorker{
		stats:      stats,
		users:      users,
		jobs:       make(chan RefreshJob, 100),
		sweepEvery: sweepEvery,
	}
}

func (w *RefreshWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Stats refresh worker started in background...")

		ticker := time.NewTicker(w.sweepEvery)
		defer ticker.Stop()

		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ticker.C:
				w.sweep(ctx)
			case <-ctx.Done():
				log.Println("Stats refresh worker shutting down...")
				return
			}
		}
	}()
}

func (w *RefreshWorker) Enqueue(userID string) {
	select {
	case w.jobs <- RefreshJob{UserID: userID}:
	default:
		log.Printf("Stats refresh queue full! Dropping job for user %s (sweep will catch up)", userID)
	}
}

func (w *RefreshWorker) processJob(ctx context.Context, job RefreshJob) {
	if _, err := w.stats.Refresh(ctx, job.UserID); err != nil {
		log.Printf("Worker failed to refresh stats for %s: %v", job.UserID, err)
	}
}

func (w *RefreshWorker) sweep(ctx context.Context) {
	ids, err := w.users.ListIDs(ctx)
	if err != nil {
		log.Printf("Worker sweep could not list users: %v", err)
		return
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.stats.Refresh(ctx, id); err != nil {
			log.Printf("Worker sweep failed for %s: %v", id, err)
		}
	}
}
