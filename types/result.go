// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// CombinedResult is the complete diagnostic row for a single [HostCheck].
type CombinedResult struct {
	Check     HostCheck     `json:"check"`
	Probe     ProbeOutcome  `json:"probe"`
	DNS       DNSRecordSet  `json:"dns"`
	Redirects RedirectTrace `json:"redirects"`
}

// Columns lists the report column headers in the order of [CombinedResult.Row].
var Columns = []string{
	"Check Name",
	"Target URL",
	"Status",
	"Probe Description",
	"Status Description",
	"Long Status Description",
	"Check ID",
	"Hostname",
	"A Records",
	"CNAME Records",
	"NS Records",
	"Redirect Path",
}

// Row returns the result fields in report column order.
func (r CombinedResult) Row() []string {
	return []string{
		r.Check.Name,
		r.Check.Hostname,
		r.Probe.Status,
		r.Probe.ProbeDescription,
		r.Probe.StatusDescription,
		r.Probe.LongStatusDescription,
		r.Check.ID,
		r.Check.Hostname,
		r.DNS.A,
		r.DNS.CNAME,
		r.DNS.NS,
		r.Redirects.String(),
	}
}
