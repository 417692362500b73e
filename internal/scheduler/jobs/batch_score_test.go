package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factscore/internal/contracts"
	"github.com/wonny/factscore/internal/scoring"
	"github.com/wonny/factscore/pkg/config"
	"github.com/wonny/factscore/pkg/logger"
	"github.com/wonny/factscore/pkg/redis"
)

type recordingRunner struct {
	asOf    time.Time
	trigger string
	err     error
}

func (r *recordingRunner) RunBatch(ctx context.Context, kind contracts.ScoreKind, asOf time.Time, trigger string) (*contracts.ScoreRun, *scoring.BatchResult, error) {
	r.asOf, r.trigger = asOf, trigger
	if r.err != nil {
		return nil, nil, r.err
	}
	return &contracts.ScoreRun{ID: "run", Kind: kind, CompaniesScored: 1},
		&scoring.BatchResult{Kind: kind, Moat: map[int64]*contracts.MoatScore{1: {CompanyID: 1}}},
		nil
}

type countingWarmer struct {
	warmed      int
	invalidated int
}

func (c *countingWarmer) Warm(ctx context.Context, result *scoring.BatchResult, asOf time.Time) int {
	c.warmed += len(result.Moat) + len(result.Value)
	return len(result.Moat) + len(result.Value)
}

func (c *countingWarmer) Invalidate(ctx context.Context, kind contracts.ScoreKind) (int, error) {
	c.invalidated++
	return 0, nil
}

func disabledRedis(t *testing.T) *redis.Client {
	t.Helper()
	client, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestBatchScoreJob_Run(t *testing.T) {
	runner := &recordingRunner{}
	warmer := &countingWarmer{}
	job := NewBatchScoreJob(contracts.KindMoat, "0 0 19 * * *", runner, warmer, disabledRedis(t), logger.NewNop())
	job.now = func() time.Time { return time.Date(2024, 6, 30, 21, 15, 0, 0, time.UTC) }

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, "batch_score_moat", job.Name())
	assert.Equal(t, "0 0 19 * * *", job.Schedule())
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), runner.asOf)
	assert.Equal(t, "scheduler", runner.trigger)
	assert.Equal(t, 1, warmer.invalidated)
	assert.Equal(t, 1, warmer.warmed)
}

func TestBatchScoreJob_RunError(t *testing.T) {
	runner := &recordingRunner{err: errors.New("db down")}
	job := NewBatchScoreJob(contracts.KindValue, "@daily", runner, nil, disabledRedis(t), logger.NewNop())

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
