// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/siemens/hostdig/types"

	"github.com/gammazero/workerpool"
	log "github.com/sirupsen/logrus"
)

// DefaultLanes is the default number of parallel lanes.
const DefaultLanes = 16

// DefaultDelay is the default pause between consecutive diagnostics in the
// same lane.
const DefaultDelay = 2 * time.Second

// Diagnoser diagnoses a single host check.
type Diagnoser interface {
	Run(ctx context.Context, credential string, check types.HostCheck) types.CombinedResult
}

// Event informs an observer about a lane starting (Result is nil) or having
// finished (Result is non-nil) the diagnosis of a check.
type Event struct {
	Lane   int                   // lane number, starting at 0.
	Index  int                   // index of the check within its lane.
	Total  int                   // number of checks in this lane.
	Check  types.HostCheck       // check being diagnosed.
	Result *types.CombinedResult // diagnostic result, or nil while in progress.
}

// Observer gets notified about lane progress.
type Observer func(Event)

// Scheduler runs host diagnostics in parallel lanes.
type Scheduler struct {
	diagnoser Diagnoser
	lanes     int
	delay     time.Duration
	observer  Observer
}

// Option can be passed to New when creating new Scheduler objects.
type Option func(*Scheduler)

// New returns a new Scheduler using the specified Diagnoser. It defaults to
// [DefaultLanes] lanes and a pause of [DefaultDelay] between diagnostics.
func New(diagnoser Diagnoser, options ...Option) *Scheduler {
	s := &Scheduler{
		diagnoser: diagnoser,
		lanes:     DefaultLanes,
		delay:     DefaultDelay,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// WithLanes sets the number of parallel lanes, which must be at least 1.
func WithLanes(lanes int) Option {
	if lanes < 1 {
		panic(fmt.Errorf("Scheduler: number of lanes must be at least 1, got: %d", lanes))
	}
	return func(s *Scheduler) {
		s.lanes = lanes
	}
}

// WithDelay sets the pause between consecutive diagnostics in the same lane.
// A zero delay disables pausing.
func WithDelay(delay time.Duration) Option {
	if delay < 0 {
		panic(fmt.Errorf("Scheduler: delay must not be negative, got: %s", delay))
	}
	return func(s *Scheduler) {
		s.delay = delay
	}
}

// WithObserver sets an observer to be notified about lane progress.
func WithObserver(observer Observer) Option {
	return func(s *Scheduler) {
		s.observer = observer
	}
}

// Lanes returns the number of lanes of this Scheduler.
func (s *Scheduler) Lanes() int { return s.lanes }

// Partition splits the checks into exactly the specified number of
// contiguous slices. The slice lengths differ by at most one; earlier slices
// take up the remainder, so only trailing slices may be shorter or even empty.
func Partition(checks []types.HostCheck, lanes int) [][]types.HostCheck {
	if lanes < 1 {
		lanes = 1
	}
	parts := make([][]types.HostCheck, lanes)
	size, rest := len(checks)/lanes, len(checks)%lanes
	start := 0
	for lane := range parts {
		end := start + size
		if lane < rest {
			end++
		}
		parts[lane] = checks[start:end:end]
		start = end
	}
	return parts
}

// Run diagnoses all checks and returns their results, one result per check.
// The credential is passed on to the diagnoser unchanged. Run waits for all
// lanes to finish.
//
// When the context gets cancelled, lanes stop pausing and skip their
// remaining checks; these then yield results with an error status.
func (s *Scheduler) Run(ctx context.Context, credential string, checks []types.HostCheck) []types.CombinedResult {
	if len(checks) == 0 {
		return []types.CombinedResult{}
	}
	parts := Partition(checks, s.lanes)
	slots := make([][]types.CombinedResult, len(parts))
	pool := workerpool.New(s.lanes)
	for lane, part := range parts {
		if len(part) == 0 {
			continue
		}
		lane, part := lane, part
		pool.Submit(func() {
			slots[lane] = s.runLane(ctx, credential, lane, part)
		})
	}
	pool.StopWait()
	results := make([]types.CombinedResult, 0, len(checks))
	for _, slot := range slots {
		results = append(results, slot...)
	}
	return results
}

// runLane diagnoses the checks of a single lane in order, recovering from a
// panicking diagnoser.
func (s *Scheduler) runLane(ctx context.Context, credential string, lane int, checks []types.HostCheck) (results []types.CombinedResult) {
	results = make([]types.CombinedResult, 0, len(checks))
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("lane %d aborted: %v", lane, r)
			results = s.abort(lane, checks, results, fmt.Errorf("lane aborted: %v", r))
		}
	}()
	log.Debugf("lane %d starting with %d checks", lane, len(checks))
	for idx, check := range checks {
		if idx > 0 && !s.pause(ctx) {
			return s.abort(lane, checks, results, ctx.Err())
		}
		s.notify(Event{Lane: lane, Index: idx, Total: len(checks), Check: check})
		result := s.diagnoser.Run(ctx, credential, check)
		results = append(results, result)
		s.notify(Event{Lane: lane, Index: idx, Total: len(checks), Check: check, Result: &result})
	}
	log.Debugf("lane %d done", lane)
	return results
}

// pause waits for the configured delay, returning false if the context got
// cancelled in the meantime.
func (s *Scheduler) pause(ctx context.Context) bool {
	if s.delay == 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// abort completes the results of a lane with placeholder results for all
// checks not yet diagnosed.
func (s *Scheduler) abort(lane int, checks []types.HostCheck, results []types.CombinedResult, err error) []types.CombinedResult {
	for idx := len(results); idx < len(checks); idx++ {
		result := Placeholder(checks[idx], err)
		results = append(results, result)
		s.notify(Event{Lane: lane, Index: idx, Total: len(checks), Check: checks[idx], Result: &result})
	}
	return results
}

func (s *Scheduler) notify(ev Event) {
	if s.observer != nil {
		s.observer(ev)
	}
}

// Placeholder returns the result for a check that could not be diagnosed
// because of the specified error.
func Placeholder(check types.HostCheck, err error) types.CombinedResult {
	return types.CombinedResult{
		Check: check,
		Probe: types.FailedProbe(err.Error()),
		DNS: types.DNSRecordSet{
			A:     types.NotAvailable,
			CNAME: types.NotAvailable,
			NS:    types.NotAvailable,
		},
		Redirects: types.FailedTrace(err),
	}
}
