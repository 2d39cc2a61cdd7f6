// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// HostCheck identifies a single monitoring target, as supplied by the uptime
// monitoring service.
type HostCheck struct {
	ID       string `json:"id"`       // opaque check identifier
	Name     string `json:"name"`     // human-readable check name
	Hostname string `json:"hostname"` // monitored host name, without scheme
}

// NotAvailable is the sentinel value for probe fields the monitoring service
// didn't return.
const NotAvailable = "N/A"

// NoResult is the probe status reported when the monitoring service answered,
// but without any probe result.
const NoResult = "No result returned"

// ProbeOutcome is the uptime-probe result for a single hostname. Any field may
// be [NotAvailable]; in case the probe request failed, Status contains an
// error description and all other fields are NotAvailable.
type ProbeOutcome struct {
	Status                string `json:"status"`
	ProbeDescription      string `json:"probedesc"`
	StatusDescription     string `json:"statusdesc"`
	LongStatusDescription string `json:"statusdesclong"`
}

// ErrorPrefix starts the status of a failed probe request.
const ErrorPrefix = "Error: "

// FailedProbe returns a ProbeOutcome for a failed probe request, with the
// failure detail in the status field.
func FailedProbe(detail string) ProbeOutcome {
	return ProbeOutcome{
		Status:                ErrorPrefix + detail,
		ProbeDescription:      NotAvailable,
		StatusDescription:     NotAvailable,
		LongStatusDescription: NotAvailable,
	}
}

// DNSRecordSet holds the rendered A, CNAME and NS record sets of a hostname.
// Each field is either a ", "-joined list of record values, a "no records
// found" notice, or an error description specific to that record type.
type DNSRecordSet struct {
	A     string `json:"a"`
	CNAME string `json:"cname"`
	NS    string `json:"ns"`
}
