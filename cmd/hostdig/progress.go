// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"strings"
	"sync"

	"github.com/siemens/hostdig/batch"
	"github.com/siemens/hostdig/types"
)

// laneState is a snapshot of the progress of a single lane.
type laneState struct {
	Lane    int    // lane number, starting at 0.
	Total   int    // number of checks in this lane.
	Done    int    // number of checks diagnosed so far.
	Failed  int    // number of diagnosed checks with an error status.
	Current string // hostname currently being diagnosed, if any.
}

// Finished returns true if the lane has diagnosed all its checks.
func (s laneState) Finished() bool { return s.Done >= s.Total }

// laneProgress tracks the progress of all (non-empty) lanes of a batch run,
// updated from batch events. laneProgress is safe for concurrent use.
type laneProgress struct {
	mu    sync.Mutex
	lanes []laneState
	index map[int]int // maps lane numbers to indices into lanes.
}

// newLaneProgress returns a new laneProgress for the specified lane
// partitioning, skipping empty lanes.
func newLaneProgress(parts [][]types.HostCheck) *laneProgress {
	p := &laneProgress{index: map[int]int{}}
	for lane, part := range parts {
		if len(part) == 0 {
			continue
		}
		p.index[lane] = len(p.lanes)
		p.lanes = append(p.lanes, laneState{Lane: lane, Total: len(part)})
	}
	return p
}

// Update the progress with the specified batch event, ignoring events for
// unknown lanes.
func (p *laneProgress) Update(ev batch.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, ok := p.index[ev.Lane]
	if !ok {
		return
	}
	state := &p.lanes[idx]
	if ev.Result == nil {
		state.Current = ev.Check.Hostname
		return
	}
	state.Current = ""
	state.Done++
	if strings.HasPrefix(ev.Result.Probe.Status, types.ErrorPrefix) {
		state.Failed++
	}
}

// Get returns a snapshot of the progress of all lanes, in lane order.
func (p *laneProgress) Get() []laneState {
	p.mu.Lock()
	defer p.mu.Unlock()
	states := make([]laneState, len(p.lanes))
	copy(states, p.lanes)
	return states
}
