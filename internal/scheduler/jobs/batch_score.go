package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/scheduler"
	"github.com/wonny/factscore/internal/scoring"
	"github.com/wonny/factscore/pkg/logger"
	"github.com/wonny/factscore/pkg/redis"
)

// lockTTL outlives any realistic batch; the lock is released explicitly
const lockTTL = 30 * time.Minute

// BatchRunner runs and records a batch scoring pass
type BatchRunner interface {
	RunBatch(ctx context.Context, kind contracts.ScoreKind, asOf time.Time, trigger string) (*contracts.ScoreRun, *scoring.BatchResult, error)
}

// CacheWarmer refreshes cached scorecards after a batch
type CacheWarmer interface {
	Warm(ctx context.Context, result *scoring.BatchResult, asOf time.Time) int
	Invalidate(ctx context.Context, kind contracts.ScoreKind) (int, error)
}

// BatchScoreJob scores every company for one kind on a schedule
type BatchScoreJob struct {
	kind     contracts.ScoreKind
	schedule string
	runner   BatchRunner
	cache    CacheWarmer
	redis    *redis.Client
	now      func() time.Time
	logger   *logger.Logger
}

// NewBatchScoreJob creates a new batch scoring job. cache may be nil. The Redis
// lock keeps two scheduler instances from running the same kind at once.
func NewBatchScoreJob(
	kind contracts.ScoreKind,
	schedule string,
	runner BatchRunner,
	cache CacheWarmer,
	redisClient *redis.Client,
	log *logger.Logger,
) *BatchScoreJob {
	return &BatchScoreJob{
		kind:     kind,
		schedule: schedule,
		runner:   runner,
		cache:    cache,
		redis:    redisClient,
		now:      time.Now,
		logger:   log.WithComponent("batch_score_job"),
	}
}

// Name returns the job name
func (j *BatchScoreJob) Name() string {
	return fmt.Sprintf("batch_score_%s", j.kind)
}

// Schedule returns the cron schedule
func (j *BatchScoreJob) Schedule() string {
	return j.schedule
}

// Run scores all companies as of today
func (j *BatchScoreJob) Run(ctx context.Context) error {
	lock := redis.NewLock(j.redis, "factscore", j.Name(), lockTTL)
	if err := lock.Acquire(ctx); err != nil {
		if errors.Is(err, redis.ErrLockHeld) {
			return fmt.Errorf("%s: %w", j.Name(), scheduler.ErrSkipped)
		}
		return fmt.Errorf("acquire batch lock: %w", err)
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			j.logger.WithError(err).Warn("Failed to release batch lock")
		}
	}()

	now := j.now().UTC()
	asOf := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	run, result, err := j.runner.RunBatch(ctx, j.kind, asOf, "scheduler")
	if err != nil {
		return fmt.Errorf("run batch %s: %w", j.kind, err)
	}

	warmed := 0
	if j.cache != nil {
		if _, err := j.cache.Invalidate(ctx, j.kind); err != nil {
			j.logger.WithError(err).Warn("Failed to invalidate score cache")
		}
		warmed = j.cache.Warm(ctx, result, asOf)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  run.ID,
		"kind":    j.kind,
		"scored":  run.CompaniesScored,
		"skipped": result.Skipped,
		"cached":  warmed,
	}).Info("Scheduled batch scoring completed")

	return nil
}
