// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siemens/hostdig/types"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Pingdom API base URL.
const DefaultBaseURL = "https://api.pingdom.com/api/3.1"

// DefaultTimeout is the timeout of a single API request.
const DefaultTimeout = 30 * time.Second

// maxBody limits the size of API responses read.
const maxBody = 16 << 20

// Service runs an uptime probe for a single monitored host.
type Service interface {
	Probe(ctx context.Context, credential string, check types.HostCheck) types.ProbeOutcome
}

// Client is a Pingdom API client. A Client can be used concurrently.
type Client struct {
	baseURL string
	clnt    *http.Client
	limiter *rate.Limiter // optional account-wide request rate limit.
}

var _ Service = (*Client)(nil)

// Option can be passed to New when creating new [Client] objects.
type Option func(*Client)

// New returns a new Pingdom API [Client].
func New(options ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		clnt:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// WithBaseURL sets the API base URL, such as a mock API endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(base, "/")
	}
}

// WithTimeout sets the timeout for a single API request. Non-positive
// durations are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.clnt.Timeout = d
		}
	}
}

// WithRateLimit limits the API request rate across all users of the Client
// to the specified number of requests per second, allowing for bursts of up
// to burst requests. A non-positive rate means no limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// singleResponse is the body of a “single” check API response.
type singleResponse struct {
	Result *singleResult `json:"result"`
}

type singleResult struct {
	Status         *string `json:"status"`
	ProbeDesc      *string `json:"probedesc"`
	StatusDesc     *string `json:"statusdesc"`
	StatusDescLong *string `json:"statusdesclong"`
}

// empty returns true if the result carries none of its fields, as with
// “"result":{}”.
func (r *singleResult) empty() bool {
	return r.Status == nil && r.ProbeDesc == nil && r.StatusDesc == nil && r.StatusDescLong == nil
}

// checksResponse is the body of a “checks” API response.
type checksResponse struct {
	Checks []struct {
		ID       json.Number `json:"id"`
		Name     string      `json:"name"`
		Hostname string      `json:"hostname"`
	} `json:"checks"`
}

// Probe runs a single HTTP uptime probe for the check's host name.
func (c *Client) Probe(ctx context.Context, credential string, check types.HostCheck) types.ProbeOutcome {
	query := url.Values{}
	query.Set("type", "http")
	query.Set("host", check.Hostname)
	var resp singleResponse
	if err := c.get(ctx, credential, "/single?"+query.Encode(), &resp); err != nil {
		log.Debugf("probing %s failed: %s", check.Hostname, err)
		return types.FailedProbe(err.Error())
	}
	if resp.Result == nil || resp.Result.empty() {
		return types.ProbeOutcome{
			Status:                types.NoResult,
			ProbeDescription:      types.NotAvailable,
			StatusDescription:     types.NotAvailable,
			LongStatusDescription: types.NotAvailable,
		}
	}
	return types.ProbeOutcome{
		Status:                orNotAvailable(resp.Result.Status),
		ProbeDescription:      orNotAvailable(resp.Result.ProbeDesc),
		StatusDescription:     orNotAvailable(resp.Result.StatusDesc),
		LongStatusDescription: orNotAvailable(resp.Result.StatusDescLong),
	}
}

// ListChecks returns the list of all checks monitored by the account
// identified by the credential.
func (c *Client) ListChecks(ctx context.Context, credential string) ([]types.HostCheck, error) {
	var resp checksResponse
	if err := c.get(ctx, credential, "/checks", &resp); err != nil {
		return nil, fmt.Errorf("cannot retrieve checks: %w", err)
	}
	checks := make([]types.HostCheck, 0, len(resp.Checks))
	for _, check := range resp.Checks {
		checks = append(checks, types.HostCheck{
			ID:       check.ID.String(),
			Name:     check.Name,
			Hostname: check.Hostname,
		})
	}
	return checks, nil
}

// get sends an authenticated GET to the API path and decodes the JSON response
// body into v. Non-2xx responses are errors.
func (c *Client) get(ctx context.Context, credential string, path string, v interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")
	resp, err := c.clnt.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("cannot read response from %s: %w", req.URL.Redacted(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s for url: %s", resp.Status, req.URL.Redacted())
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("malformed response from %s: %w", req.URL.Redacted(), err)
	}
	return nil
}

func orNotAvailable(s *string) string {
	if s == nil {
		return types.NotAvailable
	}
	return *s
}

// Filter returns the checks whose host names are in the specified list,
// keeping the original order of checks. Host names are compared
// case-insensitively, ignoring surrounding white space.
func Filter(checks []types.HostCheck, hostnames []string) []types.HostCheck {
	wanted := map[string]struct{}{}
	for _, hostname := range hostnames {
		hostname = strings.ToLower(strings.TrimSpace(hostname))
		if hostname != "" {
			wanted[hostname] = struct{}{}
		}
	}
	filtered := []types.HostCheck{}
	for _, check := range checks {
		if _, ok := wanted[strings.ToLower(check.Hostname)]; ok {
			filtered = append(filtered, check)
		}
	}
	return filtered
}
