package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/logger"
)

// stubJob counts its runs and fails the first failFirst of them
type stubJob struct {
	name      string
	schedule  string
	failFirst int

	mu   sync.Mutex
	runs int
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	if j.runs <= j.failFirst {
		return errors.New("upstream flaked")
	}
	return nil
}

func (j *stubJob) runCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

func testScheduler() *Scheduler {
	log := logger.New(&config.Config{Env: "test", LogLevel: "error"})
	return New(log)
}

func TestAddJob_Duplicate(t *testing.T) {
	sched := testScheduler()
	job := &stubJob{name: "refresh", schedule: "@daily"}

	require.NoError(t, sched.AddJob(job))
	assert.Error(t, sched.AddJob(job))
	assert.Equal(t, []string{"refresh"}, sched.GetAllJobs())
}

func TestAddJob_BadSchedule(t *testing.T) {
	sched := testScheduler()

	err := sched.AddJob(&stubJob{name: "broken", schedule: "not a cron expr"})
	require.Error(t, err)
	assert.Empty(t, sched.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	sched := testScheduler()
	require.NoError(t, sched.AddJob(&stubJob{name: "refresh", schedule: "@daily"}))

	require.NoError(t, sched.RemoveJob("refresh"))
	assert.Empty(t, sched.GetAllJobs())

	// A removed job can no longer be triggered
	assert.Error(t, sched.RunJob("refresh"))
	assert.Error(t, sched.RemoveJob("refresh"))

	// Its history stays inspectable
	_, err := sched.GetJobHistory("refresh")
	assert.NoError(t, err)
}

func TestRunJob_RecordsHistory(t *testing.T) {
	sched := testScheduler().WithRetryPolicy(0, 0)
	job := &stubJob{name: "refresh", schedule: "@daily"}
	require.NoError(t, sched.AddJob(job))

	require.NoError(t, sched.RunJob("refresh"))

	history, err := sched.GetJobHistory("refresh")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return history.Len() == 1 }, time.Second, 10*time.Millisecond)

	latest := history.Latest(1)
	assert.True(t, latest[0].Success)
	assert.Equal(t, "refresh", latest[0].JobName)
	assert.Empty(t, history.Failures())
	assert.Equal(t, 1.0, history.SuccessRate())
}

func TestRunJob_RetriesUntilSuccess(t *testing.T) {
	sched := testScheduler().WithRetryPolicy(2, 0)
	job := &stubJob{name: "refresh", schedule: "@daily", failFirst: 2}
	require.NoError(t, sched.AddJob(job))

	require.NoError(t, sched.RunJob("refresh"))

	history, err := sched.GetJobHistory("refresh")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return history.Len() == 1 }, time.Second, 10*time.Millisecond)

	// Two failed attempts, then success within the same run
	assert.Equal(t, 3, job.runCount())
	assert.True(t, history.Latest(1)[0].Success)
}

func TestGetJobStats(t *testing.T) {
	sched := testScheduler().WithRetryPolicy(0, 0)
	job := &stubJob{name: "refresh", schedule: "@daily", failFirst: 1}
	require.NoError(t, sched.AddJob(job))

	require.NoError(t, sched.RunJob("refresh"))
	history, err := sched.GetJobHistory("refresh")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return history.Len() == 1 }, time.Second, 10*time.Millisecond)

	stats := sched.GetJobStats()
	require.Contains(t, stats, "refresh")

	stat := stats["refresh"]
	assert.Equal(t, "@daily", stat.Schedule)
	assert.Equal(t, 1, stat.TotalRuns)
	assert.Equal(t, 1, stat.FailureCount)
	assert.Equal(t, 0, stat.SuccessCount)
	assert.Equal(t, 0.0, stat.SuccessRate)
	require.NotNil(t, stat.LastFailure)
	assert.Nil(t, stat.LastSuccess)
}

func TestJobHistory_Bounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyCap+20; i++ {
		h.AddResult(JobResult{JobName: "refresh", Success: i%2 == 0})
	}

	assert.Equal(t, historyCap, h.Len())
	assert.Len(t, h.Latest(5), 5)
	assert.Len(t, h.Latest(historyCap+50), historyCap)
	assert.Equal(t, 0.5, h.SuccessRate())
}
