/*
Package hostdiag runs the complete diagnostic of a single monitored host: the
uptime probe, the DNS record set inspection and the redirect trace, combined
into one [types.CombinedResult].

The three steps run strictly one after another. Every failure of a step is
already rendered into the result data by the step itself, so that a diagnostic
run always produces a complete result.
*/
package hostdiag
