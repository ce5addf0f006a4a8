package backfill

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	maxJobEvents = 50

	// defaultHistoryLimit is how many finished jobs are kept and reported.
	defaultHistoryLimit = 10
)

// Repository keeps backfill jobs in memory. Jobs do not survive a restart.
// Only the most recent finished jobs are kept; queued and running jobs are
// never dropped.
type Repository struct {
	mu           sync.Mutex
	jobs         map[string]*Job
	seq          uint64
	keepFinished int
	now          func() time.Time
}

// NewRepository constructs a Repository.
func NewRepository() *Repository {
	return &Repository{
		jobs:         make(map[string]*Job),
		keepFinished: defaultHistoryLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateJob assigns an id to job, stores it and returns a copy.
func (r *Repository) CreateJob(job *Job) *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	stored := job.Copy()
	r.seq++
	stored.seq = r.seq
	stored.JobID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.jobs[stored.JobID] = stored

	return stored.Copy()
}

// UpdateStatus updates status, message and optional error.
func (r *Repository) UpdateStatus(jobID string, status JobStatus, message string, lastErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}

	now := r.now()
	job.Status = status
	job.StatusMessage = message
	job.UpdatedAt = now
	if lastErr != nil {
		job.LastError = lastErr.Error()
	}
	if job.finished() {
		job.CompletedAt = &now
		r.prune()
	}
	return nil
}

// prune drops the oldest finished jobs beyond keepFinished. Callers hold mu.
func (r *Repository) prune() {
	var finished []*Job
	for _, job := range r.jobs {
		if job.finished() {
			finished = append(finished, job)
		}
	}
	if len(finished) <= r.keepFinished {
		return
	}

	sort.Slice(finished, func(i, j int) bool {
		return finished[i].seq < finished[j].seq
	})
	for _, job := range finished[:len(finished)-r.keepFinished] {
		delete(r.jobs, job.JobID)
	}
}

// UpdateProgress updates the progress counters and message.
func (r *Repository) UpdateProgress(jobID string, current, total int, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("job %s not found", jobID)
	}
	job.ProgressCurrent = current
	job.ProgressTotal = total
	job.StatusMessage = message
	job.UpdatedAt = r.now()
	return nil
}

// AddInserted adds n to the job's count of newly stored deliveries.
func (r *Repository) AddInserted(jobID string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[jobID]; ok {
		job.Inserted += n
		job.UpdatedAt = r.now()
	}
}

// AppendEvent adds a line to the job's log, keeping the most recent ones.
func (r *Repository) AppendEvent(jobID, eventType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return
	}
	job.Events = append(job.Events, Event{Type: eventType, Message: message, CreatedAt: r.now()})
	if len(job.Events) > maxJobEvents {
		job.Events = job.Events[len(job.Events)-maxJobEvents:]
	}
}

// MarkNextJobRunning claims the oldest queued job, or returns nil.
func (r *Repository) MarkNextJobRunning() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next *Job
	for _, job := range r.jobs {
		if job.Status != JobStatusQueued {
			continue
		}
		if next == nil || job.seq < next.seq {
			next = job
		}
	}
	if next == nil {
		return nil
	}

	now := r.now()
	next.Status = JobStatusRunning
	next.StatusMessage = "Running"
	next.StartedAt = &now
	next.UpdatedAt = now
	return next.Copy()
}

// CancelQueued marks every queued or running job cancelled.
func (r *Repository) CancelQueued(message string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for _, job := range r.jobs {
		if job.Status == JobStatusQueued || job.Status == JobStatusRunning {
			job.Status = JobStatusCancelled
			job.StatusMessage = message
			job.UpdatedAt = now
			job.CompletedAt = &now
			n++
		}
	}
	r.prune()
	return n
}

// GetActiveJob returns the running job, if any.
func (r *Repository) GetActiveJob() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.jobs {
		if job.Status == JobStatusRunning {
			return job.Copy()
		}
	}
	return nil
}

// GetJob returns a job by id.
func (r *Repository) GetJob(jobID string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	return job.Copy(), ok
}

// ListRecentJobs returns up to limit jobs, newest first.
func (r *Repository) ListRecentJobs(limit int) []*Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs := make([]*Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job.Copy())
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].seq > jobs[j].seq
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs
}
