// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// TraceOutcome tells how a redirect trace ended.
type TraceOutcome int

// The ways a redirect trace can end.
const (
	NoRedirection   TraceOutcome = iota // first response was a success.
	Redirected                          // redirects followed up to a non-redirect response.
	HopLimitReached                     // still redirecting after the maximum number of hops.
	NotRedirected                       // first response was neither success nor redirect.
	RequestFailed                       // a request failed somewhere along the chain.
)

// String returns the clear-text representation of a TraceOutcome value.
func (o TraceOutcome) String() string {
	switch o {
	case NoRedirection:
		return "no redirection"
	case Redirected:
		return "redirected"
	case HopLimitReached:
		return "hop limit reached"
	case NotRedirected:
		return "not redirected"
	case RequestFailed:
		return "request failed"
	}
	return fmt.Sprintf("TraceOutcome(%d)", o)
}

// RedirectHop is a single HTTP response in a redirect chain: its status code
// and the location it points to (for the final hop: its own URL).
type RedirectHop struct {
	StatusCode int    `json:"status"`
	Location   string `json:"location"`
}

// String renders a hop as "status => location".
func (h RedirectHop) String() string {
	return fmt.Sprintf("%d => %s", h.StatusCode, h.Location)
}

// HopSeparator separates the hops of a rendered redirect trace.
const HopSeparator = " | "

// RedirectTrace is the ordered redirect chain of a hostname. For
// [NoRedirection] there is exactly one hop, the final response. For
// [NotRedirected] and [RequestFailed] Hops is empty; a failed trace discards
// any hops collected before the failure and only keeps the failure detail in
// Err.
type RedirectTrace struct {
	Hops    []RedirectHop `json:"hops,omitempty"`
	Outcome TraceOutcome  `json:"outcome"`
	Err     string        `json:"error,omitempty"`
}

// FailedTrace returns a RedirectTrace for a request failure.
func FailedTrace(err error) RedirectTrace {
	return RedirectTrace{Outcome: RequestFailed, Err: err.Error()}
}

// String renders the trace into a single delimited string, suitable for
// reports.
func (t RedirectTrace) String() string {
	switch t.Outcome {
	case NoRedirection:
		if len(t.Hops) == 0 {
			return ""
		}
		return t.Hops[0].String() + " (No redirection)"
	case NotRedirected:
		return "No Redirect"
	case RequestFailed:
		return "Request Failed: " + t.Err
	}
	hops := make([]string, 0, len(t.Hops))
	for _, hop := range t.Hops {
		hops = append(hops, hop.String())
	}
	return strings.Join(hops, HopSeparator)
}
