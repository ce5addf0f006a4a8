// Package ingest holds the provider fallback chain and the HTTP plumbing the
// provider clients share.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/fortuna/cricbase/internal/store"
)

// LiveListSource is the live-list provider, tried first for every request.
type LiveListSource interface {
	LiveMatches(ctx context.Context) ([]store.Match, error)
	// MatchStatistics returns nil, nil when the provider has no record.
	MatchStatistics(ctx context.Context, id string) (*store.Match, error)
}

// CricAPISource is the keyed match-info provider. Its ids are UUIDs.
type CricAPISource interface {
	CurrentMatches(ctx context.Context, offset int) ([]store.Match, error)
	AllMatches(ctx context.Context, offset int) ([]store.Match, error)
	// MatchInfo returns nil, nil when the provider has no record.
	MatchInfo(ctx context.Context, id string) (*store.Match, error)
}

// Source names a provider endpoint in attempt records.
type Source string

const (
	SourceLiveList   Source = "livematches"
	SourceStatistics Source = "livematches-statistics"
	SourceCricAPI    Source = "cricapi"
)

// Outcome is the result of one provider attempt.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeAbsent  Outcome = "absent"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Attempt records one provider call made while answering a request.
type Attempt struct {
	Source   Source
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// ListResult is the answer to a match list request. Source is empty when
// every provider was exhausted.
type ListResult struct {
	Matches  []store.Match
	Source   Source
	Attempts []Attempt
}

// Exhausted reports whether no provider produced an answer.
func (r ListResult) Exhausted() bool { return r.Source == "" }

// Err combines the errors of the failed attempts. It is nil when no attempt
// failed, including when providers merely had no record.
func (r ListResult) Err() error { return attemptErrors(r.Attempts) }

// MatchResult is the answer to a single match request. Match is nil when
// every provider was exhausted.
type MatchResult struct {
	Match    *store.Match
	Source   Source
	Attempts []Attempt
}

// Exhausted reports whether no provider produced an answer.
func (r MatchResult) Exhausted() bool { return r.Match == nil }

// Err combines the errors of the failed attempts.
func (r MatchResult) Err() error { return attemptErrors(r.Attempts) }

func attemptErrors(attempts []Attempt) error {
	var merr *multierror.Error
	for _, a := range attempts {
		if a.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", a.Source, a.Err))
		}
	}
	return merr.ErrorOrNil()
}

// Selector tries providers in priority order and returns the first answer.
// Answers are never merged and failed providers are not retried. It keeps no
// state between requests.
type Selector struct {
	live    LiveListSource
	cricapi CricAPISource
	timeout time.Duration
}

// NewSelector creates a selector. Either source may be nil, in which case it
// is skipped.
func NewSelector(live LiveListSource, cricapi CricAPISource, timeout time.Duration) *Selector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Selector{live: live, cricapi: cricapi, timeout: timeout}
}

// HasCricAPI reports whether the keyed provider is configured.
func (s *Selector) HasCricAPI() bool {
	return s.cricapi != nil
}

// ListMatches returns matches with the given status ("" for all). The live
// list is tried first and an empty list from it is a valid answer. The keyed
// provider is asked for current matches when status is live, otherwise for
// all matches filtered by status.
func (s *Selector) ListMatches(ctx context.Context, status string, offset int) ListResult {
	var res ListResult

	if s.live == nil {
		res.Attempts = append(res.Attempts, Attempt{Source: SourceLiveList, Outcome: OutcomeSkipped})
	} else {
		var matches []store.Match
		a := s.attempt(ctx, SourceLiveList, func(ctx context.Context) (bool, error) {
			var err error
			matches, err = s.live.LiveMatches(ctx)
			return true, err
		})
		res.Attempts = append(res.Attempts, a)
		if a.Outcome == OutcomeOK {
			res.Matches = filterStatus(matches, status)
			res.Source = SourceLiveList
			return res
		}
	}

	if s.cricapi == nil {
		res.Attempts = append(res.Attempts, Attempt{Source: SourceCricAPI, Outcome: OutcomeSkipped})
		log.Printf("[selector] ⚠️  All sources exhausted for match list (status=%q)", status)
		return res
	}

	var matches []store.Match
	a := s.attempt(ctx, SourceCricAPI, func(ctx context.Context) (bool, error) {
		var err error
		if status == store.StatusLive {
			matches, err = s.cricapi.CurrentMatches(ctx, offset)
		} else {
			matches, err = s.cricapi.AllMatches(ctx, offset)
		}
		return true, err
	})
	res.Attempts = append(res.Attempts, a)
	if a.Outcome == OutcomeOK {
		// currentMatches is already restricted to live play.
		if status == store.StatusLive {
			res.Matches = filterStatus(matches, "")
		} else {
			res.Matches = filterStatus(matches, status)
		}
		res.Source = SourceCricAPI
		return res
	}

	log.Printf("[selector] ⚠️  All sources exhausted for match list (status=%q)", status)
	return res
}

// GetMatch looks one match up. The statistics endpoint is tried first; the
// keyed provider is only asked when id looks like one of its UUIDs.
func (s *Selector) GetMatch(ctx context.Context, id string) MatchResult {
	var res MatchResult

	if s.live == nil {
		res.Attempts = append(res.Attempts, Attempt{Source: SourceStatistics, Outcome: OutcomeSkipped})
	} else {
		var m *store.Match
		a := s.attempt(ctx, SourceStatistics, func(ctx context.Context) (bool, error) {
			var err error
			m, err = s.live.MatchStatistics(ctx, id)
			return m != nil, err
		})
		res.Attempts = append(res.Attempts, a)
		if a.Outcome == OutcomeOK {
			res.Match, res.Source = m, SourceStatistics
			return res
		}
	}

	if s.cricapi == nil || !IsCricAPIID(id) {
		res.Attempts = append(res.Attempts, Attempt{Source: SourceCricAPI, Outcome: OutcomeSkipped})
		return res
	}

	var m *store.Match
	a := s.attempt(ctx, SourceCricAPI, func(ctx context.Context) (bool, error) {
		var err error
		m, err = s.cricapi.MatchInfo(ctx, id)
		return m != nil, err
	})
	res.Attempts = append(res.Attempts, a)
	if a.Outcome == OutcomeOK {
		res.Match, res.Source = m, SourceCricAPI
	}
	return res
}

// IsCricAPIID reports whether id has the 8-4-4-4-12 hex UUID shape used by
// the keyed provider.
func IsCricAPIID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// attempt runs call under its own timeout. call reports whether it found
// anything.
func (s *Selector) attempt(ctx context.Context, src Source, call func(context.Context) (bool, error)) Attempt {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	found, err := call(ctx)
	a := Attempt{Source: src, Duration: time.Since(start)}

	switch {
	case err != nil:
		a.Outcome, a.Err = OutcomeFailed, err
		log.Printf("[selector] ⚠️  %s failed after %v: %v (falling back)", src, a.Duration.Round(time.Millisecond), err)
	case !found:
		a.Outcome = OutcomeAbsent
	default:
		a.Outcome = OutcomeOK
	}
	return a
}

// filterStatus keeps matches with the given status, or all of them when status
// is empty. The result is never nil.
func filterStatus(matches []store.Match, status string) []store.Match {
	out := make([]store.Match, 0, len(matches))
	for _, m := range matches {
		if status == "" || m.Status == status {
			out = append(out, m)
		}
	}
	return out
}
