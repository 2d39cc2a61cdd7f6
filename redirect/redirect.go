// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package redirect

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siemens/hostdig/types"

	log "github.com/sirupsen/logrus"
)

// Defaults for new Tracers.
const (
	DefaultTimeout   = 20 * time.Second
	DefaultMaxHops   = 5
	DefaultUserAgent = "hostdig"
)

// maxDrain limits how much of a response body gets read before closing it.
const maxDrain = 64 << 10

// Tracer follows the redirect chains of host names. Each call to
// [Tracer.Trace] uses its own HTTP connections which are closed when the trace
// is done, so a Tracer can be used concurrently.
type Tracer struct {
	timeout   time.Duration     // per single GET request.
	maxHops   int               // maximum number of followed redirects.
	userAgent string            // User-Agent header value.
	transport http.RoundTripper // shared transport, or nil for a fresh one per trace.
}

// Option can be passed to New when creating new [Tracer] objects.
type Option func(*Tracer)

// New returns a new [Tracer], configured with optional [Option]s.
func New(options ...Option) *Tracer {
	t := &Tracer{
		timeout:   DefaultTimeout,
		maxHops:   DefaultMaxHops,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// WithTimeout sets the timeout for each individual GET request of a trace.
// Non-positive durations are ignored.
func WithTimeout(d time.Duration) Option {
	return func(t *Tracer) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithMaxHops sets the maximum number of redirects to follow. Values less than
// 1 are ignored.
func WithMaxHops(hops int) Option {
	return func(t *Tracer) {
		if hops > 0 {
			t.maxHops = hops
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(t *Tracer) {
		t.userAgent = ua
	}
}

// WithRoundTripper makes the Tracer send all requests using the specified
// round tripper instead of a fresh transport per trace.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *Tracer) {
		t.transport = rt
	}
}

// response is what a trace needs to know about a single HTTP response.
type response struct {
	status   int
	location string // Location header, if any.
	url      string // URL that was requested.
}

// isRedirect returns true if the response is a redirect with a location to
// follow.
func (r response) isRedirect() bool {
	switch r.status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return r.location != ""
	}
	return false
}

// isSuccess returns true for 2xx responses.
func (r response) isSuccess() bool {
	return r.status >= 200 && r.status < 300
}

// Trace follows the redirect chain starting at “http://hostname”. Any request
// failure along the chain ends the trace with a [types.RequestFailed] outcome
// and discards the hops collected so far.
func (t *Tracer) Trace(ctx context.Context, hostname string) types.RedirectTrace {
	rt := t.transport
	if rt == nil {
		transport := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: t.timeout,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		defer transport.CloseIdleConnections()
		rt = transport
	}
	clnt := &http.Client{
		Transport: rt,
		Timeout:   t.timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := t.get(ctx, clnt, "http://"+hostname)
	if err != nil {
		return types.FailedTrace(err)
	}
	if resp.isSuccess() {
		return types.RedirectTrace{
			Outcome: types.NoRedirection,
			Hops:    []types.RedirectHop{{StatusCode: resp.status, Location: resp.url}},
		}
	}
	if !resp.isRedirect() {
		return types.RedirectTrace{Outcome: types.NotRedirected}
	}
	var hops []types.RedirectHop
	for count := 0; resp.isRedirect() && count < t.maxHops; count++ {
		location := ResolveLocation(hostname, resp.location)
		hops = append(hops, types.RedirectHop{StatusCode: resp.status, Location: location})
		resp, err = t.get(ctx, clnt, location)
		if err != nil {
			return types.FailedTrace(err)
		}
	}
	outcome := types.Redirected
	if resp.isRedirect() {
		log.Debugf("redirect chain of %s exceeds %d hops", hostname, t.maxHops)
		outcome = types.HopLimitReached
	}
	hops = append(hops, types.RedirectHop{StatusCode: resp.status, Location: resp.url})
	return types.RedirectTrace{Hops: hops, Outcome: outcome}
}

// get issues a single GET without following any redirect.
func (t *Tracer) get(ctx context.Context, clnt *http.Client, rawurl string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return response{}, err
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	resp, err := clnt.Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		url:      requestURL(req.URL),
	}, nil
}

// requestURL renders a request URL, with an empty path shown as "/".
func requestURL(u *url.URL) string {
	if u.Path == "" && u.Opaque == "" {
		u2 := *u
		u2.Path = "/"
		return u2.String()
	}
	return u.String()
}

// ResolveLocation resolves a Location header value against the original host
// name using the http scheme. Absolute http and https URLs are returned
// unchanged, network-path references (“//host/path”) get the http scheme, and
// paths get prefixed with “http://hostname”, inserting a “/” separator where
// missing.
func ResolveLocation(hostname, location string) string {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return location
	case strings.HasPrefix(location, "//"):
		return "http:" + location
	case strings.HasPrefix(location, "/"):
		return "http://" + hostname + location
	}
	return "http://" + hostname + "/" + location
}
