/*
Package types defines hostdig's information model. It revolves around a
monitored [HostCheck] and the [CombinedResult] that a diagnostic run produces
for it: the uptime [ProbeOutcome], the [DNSRecordSet] and the [RedirectTrace].

All result types are plain values. A CombinedResult is created exactly once per
HostCheck and never modified afterwards, so results can be passed between
goroutines without any locking.

# Failures are Data

None of the result types carries Go errors. Whenever a probe, a DNS query or a
redirect request fails, the failure gets rendered into a descriptive string in
the affected field only, leaving the other fields untouched. This way a report
always has one row per requested hostname, with degraded sub-results visible in
the respective columns.
*/
package types
