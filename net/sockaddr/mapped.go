// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package sockaddr

import "github.com/runetale/runeaddr/net/ipaddr"

// Unmap rewrites an IPv4-mapped IPv6 address (::ffff:a.b.c.d) in place as the
// plain IPv4 address a.b.c.d, keeping the port. It reports false and leaves a
// untouched for anything else. The scope id is dropped.
func (a *Addr) Unmap() bool {
	if a.family != FamilyIPv6 || !ipaddr.IsV4Mapped(a.ip6) {
		return false
	}

	src := *a
	*a = Addr{
		family: FamilyIPv4,
		ip4:    ipaddr.Embedded4(src.ip6),
		port:   src.port,
	}
	return true
}

// Map rewrites an IPv4 address in place as its IPv4-mapped IPv6 form, keeping
// the port. It reports false and leaves a untouched for anything else.
func (a *Addr) Map() bool {
	if a.family != FamilyIPv4 {
		return false
	}

	src := *a
	*a = Addr{
		family: FamilyIPv6,
		ip6:    ipaddr.V4Mapped(src.ip4),
		port:   src.port,
	}
	return true
}
