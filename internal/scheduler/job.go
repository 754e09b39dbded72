package scheduler

import (
	"context"
	"time"
)

// historyCap bounds the per-job result log
const historyCap = 100

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron schedule expression, seconds field
	// included ("0 0 18 * * 1-5"), or a descriptor ("@daily")
	Schedule() string
}

// JobResult represents the result of a job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory is a bounded log of job executions, oldest results are
// discarded past historyCap
type JobHistory struct {
	results []JobResult
}

// AddResult appends a job result, trimming the oldest past the cap
func (h *JobHistory) AddResult(result JobResult) {
	h.results = append(h.results, result)
	if len(h.results) > historyCap {
		h.results = h.results[len(h.results)-historyCap:]
	}
}

// Len returns the number of retained results
func (h *JobHistory) Len() int {
	return len(h.results)
}

// Latest returns up to n most recent results, oldest first
func (h *JobHistory) Latest(n int) []JobResult {
	if n > len(h.results) {
		n = len(h.results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return h.results[len(h.results)-n:]
}

// Failures returns the retained failed results, oldest first
func (h *JobHistory) Failures() []JobResult {
	failed := make([]JobResult, 0)
	for _, result := range h.results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// SuccessRate returns the fraction of retained runs that succeeded
func (h *JobHistory) SuccessRate() float64 {
	if len(h.results) == 0 {
		return 0.0
	}

	succeeded := 0
	for _, result := range h.results {
		if result.Success {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(h.results))
}
