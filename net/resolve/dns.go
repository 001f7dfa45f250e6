// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/miekg/dns"
	"github.com/runetale/runeaddr/net/sockaddr"
)

const (
	DefaultResolvConf = "/etc/resolv.conf"
	defaultDNSTimeout = 2 * time.Second
)

var errNoAddress = errors.New("no address for host")

// DNSBackend queries nameservers directly for A and AAAA records, bypassing
// the hosts file and the libc resolver.
type DNSBackend struct {
	// Servers are host:port nameserver addresses, tried in order.
	Servers []string
	// AddrConfig reports which families to query. It defaults to
	// InterfaceFamilies.
	AddrConfig func() (v4, v6 bool)
	Timeout    time.Duration
}

// NewDNSBackend reads nameservers from a resolv.conf style file.
func NewDNSBackend(resolvConf string) (*DNSBackend, error) {
	cc, err := dns.ClientConfigFromFile(resolvConf)
	if err != nil {
		return nil, err
	}

	servers := make([]string, 0, len(cc.Servers))
	for _, s := range cc.Servers {
		servers = append(servers, net.JoinHostPort(s, cc.Port))
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("no nameservers in %s", resolvConf)
	}

	return &DNSBackend{
		Servers: servers,
		Timeout: time.Duration(cc.Timeout) * time.Second,
	}, nil
}

func (b *DNSBackend) Lookup(ctx context.Context, host, service string) ([]sockaddr.Record, error) {
	port, err := lookupPort(ctx, net.DefaultResolver, service)
	if err != nil {
		return nil, err
	}

	if ip, err := netip.ParseAddr(host); err == nil {
		ap := netip.AddrPortFrom(ip, uint16(port))
		return []sockaddr.Record{sockaddr.RecordOf(sockaddr.FromAddrPort(ap))}, nil
	}

	v4, v6 := addrConfig(b.AddrConfig)
	var qtypes []uint16
	if v4 {
		qtypes = append(qtypes, dns.TypeA)
	}
	if v6 {
		qtypes = append(qtypes, dns.TypeAAAA)
	}

	var (
		records []sockaddr.Record
		lastErr error
	)
	name := dns.Fqdn(host)
	for _, qtype := range qtypes {
		in, err := b.exchange(ctx, name, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		records = appendAnswers(records, in.Answer, uint16(port))
	}

	if len(records) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w %s", errNoAddress, host)
	}
	return records, nil
}

// appendAnswers keeps A and AAAA answers. CNAME chains are already
// flattened by the recursive server, so the other records carry nothing
// usable.
func appendAnswers(records []sockaddr.Record, answers []dns.RR, port uint16) []sockaddr.Record {
	for _, rr := range answers {
		switch rr := rr.(type) {
		case *dns.A:
			ip, ok := netip.AddrFromSlice(rr.A.To4())
			if !ok {
				continue
			}
			records = append(records, sockaddr.RecordOf(sockaddr.IPv4(ip.As4(), port)))
		case *dns.AAAA:
			ip, ok := netip.AddrFromSlice(rr.AAAA.To16())
			if !ok {
				continue
			}
			records = append(records, sockaddr.RecordOf(sockaddr.IPv6(ip.As16(), port, 0)))
		}
	}
	return records
}

func (b *DNSBackend) exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(name, qtype)
	m.RecursionDesired = true

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultDNSTimeout
	}
	udp := &dns.Client{Net: "udp", Timeout: timeout}

	var lastErr error
	for _, server := range b.Servers {
		in, _, err := udp.ExchangeContext(ctx, m, server)
		if err == nil && in.Truncated {
			tcp := &dns.Client{Net: "tcp", Timeout: timeout}
			in, _, err = tcp.ExchangeContext(ctx, m, server)
		}
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		switch in.Rcode {
		case dns.RcodeSuccess:
			return in, nil
		case dns.RcodeNameError:
			// authoritative answer, asking another server will not help
			return nil, fmt.Errorf("%s %s: %s", dns.TypeToString[qtype], name, dns.RcodeToString[in.Rcode])
		default:
			lastErr = fmt.Errorf("%s %s from %s: %s", dns.TypeToString[qtype], name, server, dns.RcodeToString[in.Rcode])
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no nameservers configured")
	}
	return nil, lastErr
}
