// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package resolve

import (
	"net"

	"github.com/runetale/runeaddr/net/sockaddr"
)

// InterfaceFamilies reports which address families are configured on this
// host, in the manner of AI_ADDRCONFIG: loopback and IPv6 link-local
// addresses do not count. When neither family is configured, or interfaces
// cannot be listed, both are reported so that nothing is filtered.
func InterfaceFamilies() (v4, v6 bool) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return true, true
	}

	for _, addr := range addrs {
		ipn, ok := addr.(*net.IPNet)
		if !ok || ipn.IP.IsLoopback() {
			continue
		}
		if ipn.IP.To4() != nil {
			v4 = true
			continue
		}
		if !ipn.IP.IsLinkLocalUnicast() {
			v6 = true
		}
	}

	if !v4 && !v6 {
		return true, true
	}
	return v4, v6
}

// AllFamilies disables address configuration filtering.
func AllFamilies() (v4, v6 bool) {
	return true, true
}

func addrConfig(f func() (bool, bool)) (v4, v6 bool) {
	if f == nil {
		return InterfaceFamilies()
	}
	return f()
}

func familyWanted(f sockaddr.Family, v4, v6 bool) bool {
	switch f {
	case sockaddr.FamilyIPv4:
		return v4
	case sockaddr.FamilyIPv6:
		return v6
	default:
		return true
	}
}
