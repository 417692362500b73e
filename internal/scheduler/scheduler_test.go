package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/factscore/pkg/logger"
)

type scriptedJob struct {
	name     string
	schedule string
	errs     []error // returned in order; nil once exhausted
	calls    int
}

func (j *scriptedJob) Name() string     { return j.name }
func (j *scriptedJob) Schedule() string { return j.schedule }

func (j *scriptedJob) Run(ctx context.Context) error {
	j.calls++
	if j.calls <= len(j.errs) {
		return j.errs[j.calls-1]
	}
	return nil
}

func newTestScheduler(retries int) *Scheduler {
	return New(logger.NewNop(), Options{MaxRetries: retries, RetryDelay: 0})
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.AddJob(&scriptedJob{name: "a", schedule: "0 0 19 * * *"}))
	assert.Error(t, s.AddJob(&scriptedJob{name: "a", schedule: "0 0 19 * * *"}), "duplicate name")
	assert.Error(t, s.AddJob(&scriptedJob{name: "b", schedule: "not a schedule"}))

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

func TestRunJob_RetriesUntilSuccess(t *testing.T) {
	s := newTestScheduler(3)
	job := &scriptedJob{name: "flaky", schedule: "@daily", errs: []error{errors.New("timeout")}}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("flaky")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Empty(t, result.Error)
}

func TestRunJob_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler(2)
	boom := errors.New("boom")
	job := &scriptedJob{name: "broken", schedule: "@daily", errs: []error{boom, boom, boom, boom}}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("broken")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "boom", result.Error)

	stats := s.GetJobStats()["broken"]
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestRunJob_SkipIsNotRetried(t *testing.T) {
	s := newTestScheduler(3)
	job := &scriptedJob{name: "locked", schedule: "@daily", errs: []error{fmt.Errorf("held: %w", ErrSkipped)}}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("locked")
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.True(t, result.Success)
	assert.Equal(t, 1, job.calls)
}

func TestRunJob_Unknown(t *testing.T) {
	_, err := newTestScheduler(0).RunJob("missing")
	assert.Error(t, err)
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler(0)
	require.NoError(t, s.AddJob(&scriptedJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))

	// History survives removal
	_, err := s.GetJobHistory("a")
	assert.NoError(t, err)
}

func TestStop_CancelsRetries(t *testing.T) {
	s := newTestScheduler(5)
	boom := errors.New("boom")
	job := &scriptedJob{name: "slow", schedule: "@daily", errs: []error{boom, boom, boom, boom, boom, boom}}
	require.NoError(t, s.AddJob(job))

	s.Start()
	s.Stop()

	result, err := s.RunJob("slow")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Attempts, "a stopped scheduler does not retry")
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+5; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Empty(t, h.GetLatestResults(0))
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)
	assert.Zero(t, (&JobHistory{}).GetSuccessRate())
}
