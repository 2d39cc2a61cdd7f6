/*
Package dnsinspect implements a DNS record set inspector for the A, CNAME and
NS record types of a host name.

Each record type is queried on its own, so that a failing query for one type
never affects the outcome of the other types. Inspection distinguishes between
a name that exists but has no records of the queried type (“no records found”)
and a failed resolution (NXDOMAIN, SERVFAIL, timeouts, et cetera).

Usage

	inspector := dnsinspect.New()
	recset := inspector.Inspect(ctx, "example.org")

By default, the nameservers configured in /etc/resolv.conf are queried; use
[WithNameservers] to query specific nameservers instead.

# Acknowledgements

Under its hood, [Inspector] leverages [miekg/dns] for sending queries and
examining the responses in detail.

[miekg/dns]: https://github.com/miekg/dns
*/
package dnsinspect
