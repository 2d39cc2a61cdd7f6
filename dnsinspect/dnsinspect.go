// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsinspect

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/siemens/hostdig/types"

	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"
)

// ResolvConf is the resolver configuration file consulted for the default
// nameservers.
const ResolvConf = "/etc/resolv.conf"

// DefaultTimeout is the default timeout for a single DNS query exchange.
const DefaultTimeout = 5 * time.Second

// fallbackNameserver is used when there is no usable resolver configuration.
const fallbackNameserver = "127.0.0.1:53"

// Inspector queries the A, CNAME and NS records of host names. An Inspector
// has no mutable state after creation and thus can be used concurrently.
type Inspector struct {
	servers []string      // nameserver addresses in "host:port" format.
	net     string        // "udp" or "tcp".
	timeout time.Duration // per query exchange.
}

// Option can be passed to New when creating new [Inspector] objects.
type Option func(*Inspector)

// New returns a new [Inspector]. Unless told otherwise by the [WithNameservers]
// option, the Inspector queries the nameservers configured in [ResolvConf].
func New(options ...Option) *Inspector {
	i := &Inspector{
		net:     "udp",
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		opt(i)
	}
	if len(i.servers) == 0 {
		i.servers = systemNameservers()
	}
	return i
}

// WithNameservers queries the specified nameservers in order instead of the
// system's configured ones. Addresses without a port get port 53.
func WithNameservers(addrs ...string) Option {
	return func(i *Inspector) {
		servers := make([]string, 0, len(addrs))
		for _, addr := range addrs {
			if _, _, err := net.SplitHostPort(addr); err != nil {
				addr = net.JoinHostPort(addr, "53")
			}
			servers = append(servers, addr)
		}
		i.servers = servers
	}
}

// WithTimeout sets the timeout of a single DNS query exchange. Non-positive
// durations are ignored.
func WithTimeout(d time.Duration) Option {
	return func(i *Inspector) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithNet sets the transport to either "udp" (default) or "tcp".
func WithNet(network string) Option {
	return func(i *Inspector) {
		i.net = network
	}
}

// systemNameservers returns the nameservers from the system's resolver
// configuration, or a localhost fallback.
func systemNameservers() []string {
	cfg, err := dns.ClientConfigFromFile(ResolvConf)
	if err != nil || len(cfg.Servers) == 0 {
		log.Debugf("no usable nameservers in %s, falling back to %s", ResolvConf, fallbackNameserver)
		return []string{fallbackNameserver}
	}
	servers := make([]string, 0, len(cfg.Servers))
	for _, server := range cfg.Servers {
		servers = append(servers, net.JoinHostPort(server, cfg.Port))
	}
	return servers
}

// Inspect resolves the A, CNAME and NS record sets of the specified host name.
// Each record type is resolved independently; failures are rendered into the
// field of the failing record type only.
func (i *Inspector) Inspect(ctx context.Context, hostname string) types.DNSRecordSet {
	return types.DNSRecordSet{
		A:     i.render(ctx, hostname, dns.TypeA),
		CNAME: i.render(ctx, hostname, dns.TypeCNAME),
		NS:    i.render(ctx, hostname, dns.TypeNS),
	}
}

// render looks up the records of the specified type and renders them into
// their textual report form.
func (i *Inspector) render(ctx context.Context, hostname string, qtype uint16) string {
	typename := dns.TypeToString[qtype]
	values, err := i.Lookup(ctx, hostname, qtype)
	if err != nil {
		log.Debugf("DNS %s lookup for %q failed: %s", typename, hostname, err)
		return fmt.Sprintf("DNS Lookup %s Failed: %s", typename, err)
	}
	if len(values) == 0 {
		return fmt.Sprintf("No %s Records Found", typename)
	}
	return strings.Join(values, ", ")
}

// Lookup queries the records of the specified type for a host name, returning
// the textual values of the records. An existing name without records of the
// queried type results in an empty list and no error. Other records in the
// answer section, such as the CNAME chain of an A query, are skipped.
func (i *Inspector) Lookup(ctx context.Context, hostname string, qtype uint16) ([]string, error) {
	name := dns.Fqdn(strings.TrimSpace(hostname))
	if _, ok := dns.IsDomainName(name); !ok || name == "." {
		return nil, fmt.Errorf("invalid host name %q", hostname)
	}
	msg := dns.Msg{}
	msg.SetQuestion(name, qtype)
	r, err := i.exchange(ctx, &msg)
	if err != nil {
		return nil, err
	}
	if r.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query for %q yields %s", name, dns.RcodeToString[r.Rcode])
	}
	var values []string
	for _, rr := range r.Answer {
		if rr.Header().Rrtype != qtype {
			continue
		}
		switch rr := rr.(type) {
		case *dns.A:
			values = append(values, rr.A.String())
		case *dns.CNAME:
			values = append(values, rr.Target)
		case *dns.NS:
			values = append(values, rr.Ns)
		}
	}
	return values, nil
}

// exchange sends the query to the configured nameservers in turn until one of
// them answers. Truncated UDP answers are repeated over TCP.
func (i *Inspector) exchange(ctx context.Context, msg *dns.Msg) (*dns.Msg, error) {
	clnt := dns.Client{Net: i.net, Timeout: i.timeout}
	err := errors.New("no nameservers configured")
	for _, server := range i.servers {
		var r *dns.Msg
		r, _, err = clnt.ExchangeContext(ctx, msg, server)
		if err == nil && r.Truncated && i.net != "tcp" {
			tcpclnt := dns.Client{Net: "tcp", Timeout: i.timeout}
			r, _, err = tcpclnt.ExchangeContext(ctx, msg, server)
		}
		if err == nil {
			return r, nil
		}
		log.Debugf("nameserver %s failed: %s", server, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, err
}
