/*
Package probe talks to the Pingdom uptime monitoring API: it retrieves the
list of monitored checks and runs single uptime probes for host names.

[Client] implements the [Service] interface the diagnostics need. A probe never
fails with a Go error; request failures and non-2xx answers are instead
rendered into the status field of the returned [types.ProbeOutcome].

The API credential is passed in on each call as an opaque bearer token; a
missing or invalid credential simply makes the API answer with an error that
then shows up in the probe outcome.
*/
package probe
