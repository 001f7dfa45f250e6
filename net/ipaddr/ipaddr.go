// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

// Package ipaddr holds the byte-level IPv4 / IPv6 predicates shared by the
// socket address helpers.
package ipaddr

import (
	"net/netip"
	"sync"
)

var (
	loopbackV4Range  oncePrefix
	linkLocalV4Range oncePrefix
	linkLocalV6Range oncePrefix
)

type oncePrefix struct {
	sync.Once
	v netip.Prefix
}

// v4InV6Prefix is the ::ffff:0:0/96 prefix, 10 zero bytes then 0xff 0xff.
var v4InV6Prefix = [12]byte{10: 0xff, 11: 0xff}

func Unmap(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}

// IsV4Mapped reports whether b is an IPv4-mapped IPv6 address (::ffff:a.b.c.d).
func IsV4Mapped(b [16]byte) bool {
	return [12]byte(b[:12]) == v4InV6Prefix
}

// V4Mapped returns the IPv4-mapped IPv6 form of v4.
func V4Mapped(v4 [4]byte) [16]byte {
	var b [16]byte
	copy(b[:12], v4InV6Prefix[:])
	copy(b[12:], v4[:])
	return b
}

// Embedded4 returns the last four bytes of b.
func Embedded4(b [16]byte) [4]byte {
	return [4]byte(b[12:])
}

func LoopbackV4Range() netip.Prefix {
	loopbackV4Range.Do(func() { checkIPPrefix(&loopbackV4Range.v, "127.0.0.0/8") })
	return loopbackV4Range.v
}

func LinkLocalV4Range() netip.Prefix {
	linkLocalV4Range.Do(func() { checkIPPrefix(&linkLocalV4Range.v, "169.254.0.0/16") })
	return linkLocalV4Range.v
}

func LinkLocalV6Range() netip.Prefix {
	linkLocalV6Range.Do(func() { checkIPPrefix(&linkLocalV6Range.v, "fe80::/10") })
	return linkLocalV6Range.v
}

// IsLocal4 reports whether b is an IPv4 loopback (127/8) or link-local
// (169.254/16) address.
func IsLocal4(b [4]byte) bool {
	ip := netip.AddrFrom4(b)
	return LoopbackV4Range().Contains(ip) || LinkLocalV4Range().Contains(ip)
}

// IsLoopback6 reports whether b is ::1.
func IsLoopback6(b [16]byte) bool {
	return netip.AddrFrom16(b) == netip.IPv6Loopback()
}

// IsLinkLocal6 reports whether b is in fe80::/10.
func IsLinkLocal6(b [16]byte) bool {
	return LinkLocalV6Range().Contains(netip.AddrFrom16(b))
}

func checkIPPrefix(v *netip.Prefix, prefix string) {
	var err error
	*v, err = netip.ParsePrefix(prefix)
	if err != nil {
		panic(err)
	}
}
