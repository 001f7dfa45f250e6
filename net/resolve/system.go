// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package resolve

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/runetale/runeaddr/net/sockaddr"
)

// SystemBackend resolves through a net.Resolver, asking for any family and
// a datagram service port.
type SystemBackend struct {
	// Resolver defaults to net.DefaultResolver.
	Resolver *net.Resolver
	// AddrConfig reports which families to return. It defaults to
	// InterfaceFamilies.
	AddrConfig func() (v4, v6 bool)
}

func (b *SystemBackend) Lookup(ctx context.Context, host, service string) ([]sockaddr.Record, error) {
	res := b.Resolver
	if res == nil {
		res = net.DefaultResolver
	}

	port, err := lookupPort(ctx, res, service)
	if err != nil {
		return nil, err
	}

	// net.Resolver widens literals to 16 bytes, which loses the family of
	// an ipv4 literal against its mapped form. Literals keep theirs here.
	if ip, err := netip.ParseAddr(host); err == nil {
		ap := netip.AddrPortFrom(ip, uint16(port))
		return []sockaddr.Record{sockaddr.RecordOf(sockaddr.FromAddrPort(ap))}, nil
	}

	ips, err := res.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	v4, v6 := addrConfig(b.AddrConfig)
	records := make([]sockaddr.Record, 0, len(ips))
	for _, ip := range ips {
		addr, ok := addrOf(ip)
		if !ok {
			continue
		}
		a := sockaddr.FromAddrPort(netip.AddrPortFrom(addr, uint16(port)))
		if !familyWanted(a.Family(), v4, v6) {
			continue
		}
		records = append(records, sockaddr.RecordOf(a))
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w %s", errNoAddress, host)
	}
	return records, nil
}

// addrOf converts a resolved address. Hosts file and stub resolver answers
// may carry an ipv4 address in its 16 byte form, which is ipv4 all the same.
func addrOf(ip net.IPAddr) (netip.Addr, bool) {
	if ip4 := ip.IP.To4(); ip4 != nil {
		return netip.AddrFromSlice(ip4)
	}
	addr, ok := netip.AddrFromSlice(ip.IP)
	if !ok {
		return netip.Addr{}, false
	}
	return addr.WithZone(ip.Zone), true
}

// lookupPort resolves service for UDP. An empty service means port 0.
func lookupPort(ctx context.Context, res *net.Resolver, service string) (int, error) {
	if service == "" {
		return 0, nil
	}
	return res.LookupPort(ctx, "udp", service)
}
