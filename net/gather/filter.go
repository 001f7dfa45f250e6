// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package gather

import (
	"net"

	"github.com/runetale/runeaddr/net/sockaddr"
)

// Filter decides which local addresses become ICE candidates. The zero
// value drops loopback, link-local and IPv6 temporary addresses.
type Filter struct {
	AllowLocal     bool
	AllowTemporary bool
	// interface names never to gather from
	BlackList []string
}

func (f Filter) Accept(a sockaddr.Addr) bool {
	if !f.AllowLocal && a.IsLocal() {
		return false
	}
	if !f.AllowTemporary && a.IsTemporary() {
		return false
	}
	return true
}

// IPFilter adapts Accept to ice.AgentConfig.IPFilter.
func (f Filter) IPFilter() func(net.IP) bool {
	return func(ip net.IP) bool {
		return f.Accept(sockaddr.FromUDPAddr(&net.UDPAddr{IP: ip}))
	}
}

// InterfaceFilter adapts BlackList to ice.AgentConfig.InterfaceFilter.
func (f Filter) InterfaceFilter() func(string) bool {
	var blackListMap map[string]struct{}
	if f.BlackList != nil {
		blackListMap = make(map[string]struct{})
		for _, s := range f.BlackList {
			blackListMap[s] = struct{}{}
		}
	}

	return func(iFace string) bool {
		if len(blackListMap) == 0 {
			return true
		}
		_, ok := blackListMap[iFace]
		return !ok
	}
}
