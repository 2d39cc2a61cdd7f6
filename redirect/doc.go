/*
Package redirect traces the HTTP redirect chain of a host name.

A [Tracer] starts with a plain GET for “http://hostname” and then follows
redirects hop by hop itself, with automatic redirect following disabled, so
that each intermediate status code and location ends up in the resulting
[types.RedirectTrace]. Tracing stops at the first non-redirect response or
after a maximum number of followed hops (5 by default).

Relative Location headers are resolved against the original host name, not
against the URL of the redirecting response.
*/
package redirect
