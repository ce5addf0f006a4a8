package backfill

import (
	"time"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job is one queued backfill over a set of matches.
type Job struct {
	JobID           string     `json:"job_id"`
	MatchIDs        []string   `json:"match_ids"`
	DryRun          bool       `json:"dry_run"`
	Status          JobStatus  `json:"status"`
	StatusMessage   string     `json:"status_message,omitempty"`
	ProgressCurrent int        `json:"progress_current"`
	ProgressTotal   int        `json:"progress_total"`
	Inserted        int        `json:"deliveries_inserted"`
	LastError       string     `json:"last_error,omitempty"`
	Events          []Event    `json:"events,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	seq uint64
}

// Event is a line in a job's log.
type Event struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Copy returns a copy safe to hand to callers.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	cpy.MatchIDs = append([]string(nil), j.MatchIDs...)
	cpy.Events = append([]Event(nil), j.Events...)
	if j.StartedAt != nil {
		t := *j.StartedAt
		cpy.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cpy.CompletedAt = &t
	}
	return &cpy
}

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	MatchIDs []string
	DryRun   bool
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnMatchStart(matchID string, index int, total int)
	OnPage(matchID string, page int, fresh int)
	OnMatchProcessed(matchID string, inserted int)
	OnJobComplete()
	OnJobError(err error)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs"`
}

func (j *Job) finished() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}
