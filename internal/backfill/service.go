package backfill

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// Request represents a backfill invocation request.
type Request struct {
	MatchIDs []string
	DryRun   bool
}

// Normalize trims ids and drops blanks and duplicates, keeping order.
func (r Request) Normalize() Request {
	seen := make(map[string]bool, len(r.MatchIDs))
	ids := make([]string, 0, len(r.MatchIDs))
	for _, id := range r.MatchIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return Request{MatchIDs: ids, DryRun: r.DryRun}
}

// Service coordinates job queueing, execution, and status reporting.
type Service struct {
	repo   *Repository
	runner *Runner

	historyLimit int
	pollInterval time.Duration
	wake         chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(runner *Runner, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = log.New(log.Writer(), "[backfill] ", log.LstdFlags)
	}

	return &Service{
		repo:         NewRepository(),
		runner:       runner,
		historyLimit: defaultHistoryLimit,
		pollInterval: 3 * time.Second,
		wake:         make(chan struct{}, 1),
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker, cancels unfinished jobs and waits for the
// worker to exit.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if n := s.repo.CancelQueued("Service shutting down"); n > 0 {
			s.logger.Printf("cancelled %d unfinished jobs", n)
		}
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	req = req.Normalize()
	if len(req.MatchIDs) == 0 {
		return nil, fmt.Errorf("backfill requires at least one match id")
	}

	job := s.repo.CreateJob(&Job{
		MatchIDs:      req.MatchIDs,
		DryRun:        req.DryRun,
		Status:        JobStatusQueued,
		StatusMessage: "Queued",
		ProgressTotal: len(req.MatchIDs),
	})
	s.repo.AppendEvent(job.JobID, "queued", "Job queued")

	select {
	case s.wake <- struct{}{}:
	default:
	}

	return job, nil
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus(ctx context.Context) (*StatusSummary, error) {
	return &StatusSummary{
		ActiveJob: s.repo.GetActiveJob(),
		History:   s.repo.ListRecentJobs(s.historyLimit),
	}, nil
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		job := s.repo.MarkNextJobRunning()
		if job != nil {
			s.executeJob(job)
			continue
		}

		select {
		case <-s.ctx.Done():
			return
		case <-s.wake:
		case <-ticker.C:
		}
	}
}

func (s *Service) executeJob(job *Job) {
	s.logger.Printf("→ job %s: %d matches (dry_run=%v)", job.JobID, len(job.MatchIDs), job.DryRun)

	reporter := &jobReporter{repo: s.repo, jobID: job.JobID}
	spec := JobSpec{MatchIDs: job.MatchIDs, DryRun: job.DryRun}

	if err := s.runner.Run(s.ctx, spec, reporter); err != nil {
		if errors.Is(err, context.Canceled) || s.ctx.Err() != nil {
			s.logger.Printf("⚠️  job %s interrupted: %v", job.JobID, err)
			_ = s.repo.UpdateStatus(job.JobID, JobStatusCancelled, "Service shutting down", err)
			return
		}
		s.logger.Printf("❌ job %s failed: %v", job.JobID, err)
		_ = s.repo.UpdateStatus(job.JobID, JobStatusFailed, "Job failed", err)
		return
	}

	s.logger.Printf("✓ job %s completed", job.JobID)
	_ = s.repo.UpdateStatus(job.JobID, JobStatusCompleted, "Job completed", nil)
}

type jobReporter struct {
	repo  *Repository
	jobID string
	total int
}

func (r *jobReporter) OnJobStart(spec JobSpec) {
	r.total = len(spec.MatchIDs)
	_ = r.repo.UpdateProgress(r.jobID, 0, r.total, "Job starting")
}

func (r *jobReporter) OnMatchStart(matchID string, index int, total int) {
	msg := fmt.Sprintf("Processing match %s (%d/%d)", matchID, index+1, total)
	_ = r.repo.UpdateProgress(r.jobID, index, total, msg)
}

func (r *jobReporter) OnPage(matchID string, page int, fresh int) {
	r.repo.AppendEvent(r.jobID, "page", fmt.Sprintf("Match %s page %d: %d new deliveries", matchID, page, fresh))
}

func (r *jobReporter) OnMatchProcessed(matchID string, inserted int) {
	r.repo.AddInserted(r.jobID, inserted)
	r.repo.AppendEvent(r.jobID, "match", fmt.Sprintf("Match %s processed (%d inserted)", matchID, inserted))

	if job, ok := r.repo.GetJob(r.jobID); ok {
		_ = r.repo.UpdateProgress(r.jobID, job.ProgressCurrent+1, r.total, fmt.Sprintf("✓ Match %s complete", matchID))
	}
}

func (r *jobReporter) OnJobComplete() {
	_ = r.repo.UpdateProgress(r.jobID, r.total, r.total, "Job complete")
}

func (r *jobReporter) OnJobError(err error) {
	r.repo.AppendEvent(r.jobID, "error", err.Error())
}
