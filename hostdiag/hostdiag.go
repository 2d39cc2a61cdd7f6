// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package hostdiag

import (
	"context"

	"github.com/siemens/hostdig/probe"
	"github.com/siemens/hostdig/types"

	log "github.com/sirupsen/logrus"
)

// DNSInspector resolves the DNS record sets of a host name.
type DNSInspector interface {
	Inspect(ctx context.Context, hostname string) types.DNSRecordSet
}

// RedirectTracer traces the HTTP redirect chain of a host name.
type RedirectTracer interface {
	Trace(ctx context.Context, hostname string) types.RedirectTrace
}

// Diagnoser composes an uptime probe, a DNS inspection and a redirect trace
// into a single diagnostic result. Diagnosers don't keep any state of their
// own and thus can be used concurrently, as long as their collaborators can.
type Diagnoser struct {
	probe    probe.Service
	dns      DNSInspector
	redirect RedirectTracer
}

// New returns a new Diagnoser using the specified probe service, DNS inspector
// and redirect tracer.
func New(prober probe.Service, inspector DNSInspector, tracer RedirectTracer) *Diagnoser {
	return &Diagnoser{
		probe:    prober,
		dns:      inspector,
		redirect: tracer,
	}
}

// Run diagnoses the host of the specified check, passing the credential on to
// the probe service.
func (d *Diagnoser) Run(ctx context.Context, credential string, check types.HostCheck) types.CombinedResult {
	result := types.CombinedResult{Check: check}
	result.Probe = d.probe.Probe(ctx, credential, check)
	result.DNS = d.dns.Inspect(ctx, check.Hostname)
	result.Redirects = d.redirect.Trace(ctx, check.Hostname)
	log.WithFields(log.Fields{
		"check":    check.ID,
		"hostname": check.Hostname,
		"status":   result.Probe.Status,
		"redirect": result.Redirects.Outcome.String(),
	}).Debug("diagnosed host")
	return result
}
