// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

// Package sockaddr normalizes, classifies, compares and converts IPv4 and
// IPv6 transport addresses independent of their family-specific layout.
//
// Addr is the in-memory view of one socket address. Record is the encoded
// sockaddr form plus an explicit length, as produced by name resolution and
// consumed by socket calls.
//
// Unrecognized families are reported through zap's global logger (named
// "sockaddr") at warning level. Until a logger is installed with
// zap.ReplaceGlobals the warnings are discarded.
package sockaddr

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/runetale/runeaddr/net/ipaddr"
	"go.uber.org/zap"
)

// Structure sizes of sockaddr_in and sockaddr_in6.
const (
	SizeofInet4 = 16
	SizeofInet6 = 28
)

var (
	ErrUnsupportedFamily = errors.New("unsupported address family")
	ErrRecordLength      = errors.New("record length does not match address family")
)

type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyIPv4
	FamilyIPv6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "unknown"
	}
}

// Addr is a tagged socket address. Exactly one of ip4 and ip6 is meaningful,
// selected by family. The zero value is an address of unknown family.
type Addr struct {
	family Family
	// raw is the platform family number of an unknown-family address,
	// kept for diagnostics only.
	raw uint16

	ip4 [4]byte
	ip6 [16]byte
	// network byte order, as in sin_port / sin6_port
	port    [2]byte
	scopeID uint32
}

func IPv4(ip [4]byte, port uint16) Addr {
	a := Addr{family: FamilyIPv4, ip4: ip}
	a.putPort(port)
	return a
}

func IPv6(ip [16]byte, port uint16, scopeID uint32) Addr {
	a := Addr{family: FamilyIPv6, ip6: ip, scopeID: scopeID}
	a.putPort(port)
	return a
}

// Unknown returns an address carrying only a platform family number that is
// neither IPv4 nor IPv6.
func Unknown(rawFamily uint16) Addr {
	return Addr{raw: rawFamily}
}

// FromAddrPort converts ap. IPv4-mapped IPv6 addresses stay IPv6; use Unmap
// to turn them into IPv4. A zone is taken as the scope id, either numeric or
// an interface name.
func FromAddrPort(ap netip.AddrPort) Addr {
	ip := ap.Addr()
	switch {
	case ip.Is4():
		return IPv4(ip.As4(), ap.Port())
	case ip.Is6():
		return IPv6(ip.As16(), ap.Port(), zoneToScope(ip.Zone()))
	default:
		return Addr{}
	}
}

// FromUDPAddr converts u. net.IP does not tell a 16-byte IPv4 address from an
// IPv4-mapped one, so anything with an IPv4 form becomes IPv4.
func FromUDPAddr(u *net.UDPAddr) Addr {
	if u == nil {
		return Addr{}
	}
	ap := u.AddrPort()
	if u.IP.To4() != nil {
		ap = ipaddr.Unmap(ap)
	}
	return FromAddrPort(ap)
}

func (a Addr) Family() Family { return a.family }

// IP4 returns the IPv4 address bytes; only meaningful for FamilyIPv4.
func (a Addr) IP4() [4]byte { return a.ip4 }

// IP6 returns the IPv6 address bytes; only meaningful for FamilyIPv6.
func (a Addr) IP6() [16]byte { return a.ip6 }

func (a Addr) ScopeID() uint32 { return a.scopeID }

// AddrPort returns a as a netip.AddrPort, or the zero AddrPort for an
// unknown family.
func (a Addr) AddrPort() netip.AddrPort {
	switch a.family {
	case FamilyIPv4:
		return netip.AddrPortFrom(netip.AddrFrom4(a.ip4), a.portValue())
	case FamilyIPv6:
		ip := netip.AddrFrom16(a.ip6)
		if a.scopeID != 0 {
			ip = ip.WithZone(strconv.FormatUint(uint64(a.scopeID), 10))
		}
		return netip.AddrPortFrom(ip, a.portValue())
	default:
		return netip.AddrPort{}
	}
}

func (a Addr) String() string {
	if a.family == FamilyUnknown {
		return fmt.Sprintf("unknown(family=%d)", a.raw)
	}
	return a.AddrPort().String()
}

func zoneToScope(zone string) uint32 {
	if zone == "" {
		return 0
	}
	if n, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(n)
	}
	ifi, err := net.InterfaceByName(zone)
	if err != nil {
		return 0
	}
	return uint32(ifi.Index)
}

func warnUnknownFamily(a Addr) {
	zap.S().Named("sockaddr").Warnf("unknown address family %d", a.raw)
}
