// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package sockaddr

import "github.com/runetale/runeaddr/net/ipaddr"

// euiUniversalBit is the universal/local bit of the interface identifier,
// found in byte 8 of an IPv6 address. Set means the identifier was derived
// from a hardware address (modified EUI-64).
const euiUniversalBit = 0x02

// IsLocal reports whether a is a loopback or link-local address. An
// IPv4-mapped IPv6 address is judged by its embedded IPv4 address.
func (a Addr) IsLocal() bool {
	switch a.family {
	case FamilyIPv4:
		return ipaddr.IsLocal4(a.ip4)
	case FamilyIPv6:
		if ipaddr.IsLoopback6(a.ip6) || ipaddr.IsLinkLocal6(a.ip6) {
			return true
		}
		if ipaddr.IsV4Mapped(a.ip6) {
			return ipaddr.IsLocal4(ipaddr.Embedded4(a.ip6))
		}
		return false
	default:
		return false
	}
}

// IsTemporary reports whether a is a non-local IPv6 address whose interface
// identifier is randomized (privacy extensions) rather than EUI-64 derived.
func (a Addr) IsTemporary() bool {
	if a.family != FamilyIPv6 {
		return false
	}
	if a.IsLocal() {
		return false
	}
	return a.ip6[8]&euiUniversalBit == 0
}
