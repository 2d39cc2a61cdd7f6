// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"time"
)

// renderer renders the terminal display, based on the lane progress
// snapshots passed to its Render method.
type renderer struct {
	w       io.Writer
	checks  int
	spinner *spinner
}

// newRenderer returns a renderer rendering to the specified io.Writer the
// progress of diagnosing the specified number of checks.
func newRenderer(w io.Writer, checks int, spinnerInterval time.Duration) *renderer {
	return &renderer{
		w:       w,
		checks:  checks,
		spinner: newSpinner(spinnerInterval),
	}
}

// Render the given lane states.
func (r *renderer) Render(lanes []laneState) {
	done, failed := 0, 0
	for _, lane := range lanes {
		done += lane.Done
		failed += lane.Failed
	}
	fmt.Fprintf(r.w, "diagnosed %d of %d hosts", done, r.checks)
	if failed > 0 {
		fmt.Fprint(r.w, ", ", failedStyle.Styled(fmt.Sprintf("%d with errors", failed)))
	}
	fmt.Fprintln(r.w)
	// Pad lane numbers and counters, so the columns don't zig-zag.
	lanewidth, totalwidth := 1, 1
	for _, lane := range lanes {
		if w := len(fmt.Sprint(lane.Lane)); w > lanewidth {
			lanewidth = w
		}
		if w := len(fmt.Sprint(lane.Total)); w > totalwidth {
			totalwidth = w
		}
	}
	for _, lane := range lanes {
		fmt.Fprintf(r.w, "   lane %*d %*d/%-*d ",
			lanewidth, lane.Lane, totalwidth, lane.Done, totalwidth, lane.Total)
		switch {
		case lane.Finished() && lane.Failed > 0:
			fmt.Fprint(r.w, failedStyle.Styled("× done"))
		case lane.Finished():
			fmt.Fprint(r.w, doneStyle.Styled("✔ done"))
		case lane.Current != "":
			fmt.Fprint(r.w, diagnosingStyle.Styled(r.spinner.Spinner()+lane.Current))
		default:
			fmt.Fprint(r.w, waitingStyle.Styled("… waiting"))
		}
		fmt.Fprintln(r.w)
	}
}
