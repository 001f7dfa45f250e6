// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package sockaddr

import (
	"net"

	"github.com/pion/stun"
)

// FromXORMappedAddress converts a STUN XOR-MAPPED-ADDRESS attribute.
func FromXORMappedAddress(x stun.XORMappedAddress) Addr {
	return FromUDPAddr(&net.UDPAddr{IP: x.IP, Port: x.Port})
}

// XORMappedAddress returns a as a STUN XOR-MAPPED-ADDRESS attribute, ready to
// be added to a binding response. It reports false for an unknown family.
func (a Addr) XORMappedAddress() (stun.XORMappedAddress, bool) {
	switch a.family {
	case FamilyIPv4:
		ip := make(net.IP, net.IPv4len)
		copy(ip, a.ip4[:])
		return stun.XORMappedAddress{IP: ip, Port: int(a.portValue())}, true
	case FamilyIPv6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, a.ip6[:])
		return stun.XORMappedAddress{IP: ip, Port: int(a.portValue())}, true
	default:
		return stun.XORMappedAddress{}, false
	}
}
