// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package sockaddr_test

import (
	"errors"
	"net"
	"net/netip"
	"os"
	"testing"

	"github.com/runetale/runeaddr/net/sockaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

func parse(t *testing.T, s string) sockaddr.Addr {
	t.Helper()
	return sockaddr.FromAddrPort(netip.MustParseAddrPort(s))
}

// observeWarnings routes the global zap logger into an observer for the
// duration of the test.
func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	undo := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(undo)
	return logs
}

func TestLen(t *testing.T) {
	logs := observeWarnings(t)

	assert.Equal(t, uint32(sockaddr.SizeofInet4), parse(t, "192.0.2.1:80").Len())
	assert.Equal(t, uint32(sockaddr.SizeofInet6), parse(t, "[2001:db8::1]:80").Len())
	assert.Equal(t, uint32(sockaddr.SizeofInet6), parse(t, "[::ffff:192.0.2.1]:80").Len())
	assert.Zero(t, logs.Len())

	assert.Zero(t, sockaddr.Unknown(1).Len())
	assert.Zero(t, sockaddr.Addr{}.Len())
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "unknown address family 1", logs.All()[0].Message)
	assert.Equal(t, "sockaddr", logs.All()[0].LoggerName)
}

func TestPort(t *testing.T) {
	for _, s := range []string{"192.0.2.1:9", "[2001:db8::1]:9"} {
		for _, port := range []uint16{0, 1, 3478, 65535} {
			a := parse(t, s)
			require.NoError(t, a.SetPort(port))
			assert.Equal(t, port, a.Port(), s)

			got, ok := a.PortOK()
			assert.True(t, ok)
			assert.Equal(t, port, got)
		}
	}
}

func TestPortUnknownFamily(t *testing.T) {
	logs := observeWarnings(t)

	a := sockaddr.Unknown(1)
	before := a

	err := a.SetPort(80)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sockaddr.ErrUnsupportedFamily))
	assert.Equal(t, before, a)

	assert.Zero(t, a.Port())
	_, ok := a.PortOK()
	assert.False(t, ok)
	assert.Equal(t, 2, logs.Len())
}

func TestIsLocal(t *testing.T) {
	tests := []struct {
		addr  string
		local bool
	}{
		{"127.0.0.1:1", true},
		{"127.1.2.3:1", true},
		{"169.254.1.1:1", true},
		{"8.8.8.8:53", false},
		{"192.168.1.1:1", false},
		{"[::1]:1", true},
		{"[fe80::1]:1", true},
		{"[fe80::abcd:1%3]:1", true},
		{"[::ffff:127.0.0.1]:1", true},
		{"[::ffff:169.254.9.9]:1", true},
		{"[::ffff:8.8.8.8]:1", false},
		{"[2001:4860:4860::8888]:1", false},
		{"[::]:1", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.local, parse(t, tt.addr).IsLocal(), tt.addr)
	}
	assert.False(t, sockaddr.Unknown(1).IsLocal())
}

func TestIsTemporary(t *testing.T) {
	tests := []struct {
		addr string
		temp bool
	}{
		// randomized interface identifier, universal bit clear
		{"[2001:db8::9c3e:5d1a:77b0:1]:1", true},
		{"[2001:db8::1]:1", true},
		// modified EUI-64, universal bit set
		{"[2001:db8::211:22ff:fe33:4455]:1", false},
		{"[2001:db8::ff11:22ff:fe33:4455]:1", false},
		// local addresses are never temporary
		{"[fe80::9c3e:5d1a:77b0:1]:1", false},
		{"[::1]:1", false},
		{"[::ffff:127.0.0.1]:1", false},
		{"192.0.2.1:1", false},
		{"127.0.0.1:1", false},
	}
	for _, tt := range tests {
		a := parse(t, tt.addr)
		assert.Equal(t, tt.temp, a.IsTemporary(), tt.addr)
		if a.IsLocal() {
			assert.False(t, a.IsTemporary(), tt.addr)
		}
	}
	assert.False(t, sockaddr.Unknown(1).IsTemporary())
}

func TestMapUnmap(t *testing.T) {
	a := parse(t, "198.51.100.7:5000")
	orig := a

	require.True(t, a.Map())
	assert.Equal(t, sockaddr.FamilyIPv6, a.Family())
	assert.Equal(t, netip.MustParseAddr("::ffff:198.51.100.7").As16(), a.IP6())
	assert.Equal(t, uint16(5000), a.Port())
	assert.Equal(t, uint32(sockaddr.SizeofInet6), a.Len())

	require.True(t, a.Unmap())
	assert.Equal(t, orig, a)
	assert.Equal(t, uint32(sockaddr.SizeofInet4), a.Len())

	b := parse(t, "[::ffff:10.0.0.1]:65535")
	mapped := b
	require.True(t, b.Unmap())
	assert.Equal(t, [4]byte{10, 0, 0, 1}, b.IP4())
	require.True(t, b.Map())
	assert.Equal(t, mapped, b)
}

func TestMapUnmapRejects(t *testing.T) {
	v6 := parse(t, "[2001:db8::1]:1")
	before := v6
	assert.False(t, v6.Unmap())
	assert.False(t, v6.Map())
	assert.Equal(t, before, v6)

	v4 := parse(t, "192.0.2.1:1")
	assert.False(t, v4.Unmap())

	u := sockaddr.Unknown(1)
	assert.False(t, u.Map())
	assert.False(t, u.Unmap())
}

func TestUnmapDropsScope(t *testing.T) {
	a := sockaddr.IPv6(netip.MustParseAddr("::ffff:192.0.2.1").As16(), 80, 7)
	require.True(t, a.Unmap())
	assert.Zero(t, a.ScopeID())
	assert.Equal(t, "192.0.2.1:80", a.String())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b  string
		ports bool
		want  bool
	}{
		{"192.0.2.1:80", "192.0.2.1:80", true, true},
		{"192.0.2.1:80", "192.0.2.1:81", true, false},
		{"192.0.2.1:80", "192.0.2.1:81", false, true},
		{"192.0.2.1:80", "192.0.2.2:80", false, false},
		{"[2001:db8::1]:80", "[2001:db8::1]:80", true, true},
		{"[2001:db8::1]:80", "[2001:db8::1]:81", false, true},
		{"[2001:db8::1]:80", "[2001:db8::1]:81", true, false},
		{"[2001:db8::1]:80", "[2001:db8::2]:80", false, false},
		{"192.0.2.1:80", "[::ffff:192.0.2.1]:80", true, false},
		{"192.0.2.1:80", "[::ffff:192.0.2.1]:80", false, false},
	}
	for _, tt := range tests {
		a, b := parse(t, tt.a), parse(t, tt.b)
		assert.Equal(t, tt.want, sockaddr.Equal(a, b, tt.ports), "%s %s %v", tt.a, tt.b, tt.ports)
		assert.Equal(t, tt.want, sockaddr.Equal(b, a, tt.ports), "%s %s %v", tt.b, tt.a, tt.ports)
	}

	assert.False(t, sockaddr.Equal(sockaddr.Unknown(1), sockaddr.Unknown(1), false))
}

func TestEqualIgnoresScope(t *testing.T) {
	ip := netip.MustParseAddr("fe80::1").As16()
	assert.True(t, sockaddr.Equal(sockaddr.IPv6(ip, 1, 1), sockaddr.IPv6(ip, 1, 2), true))
}

func TestFromUDPAddr(t *testing.T) {
	a := sockaddr.FromUDPAddr(&net.UDPAddr{IP: net.ParseIP("192.0.2.1"), Port: 3478})
	assert.Equal(t, sockaddr.FamilyIPv4, a.Family())
	assert.Equal(t, "192.0.2.1:3478", a.String())

	b := sockaddr.FromUDPAddr(&net.UDPAddr{IP: net.ParseIP("2001:db8::1"), Port: 1, Zone: "5"})
	assert.Equal(t, sockaddr.FamilyIPv6, b.Family())
	assert.Equal(t, uint32(5), b.ScopeID())
	assert.Equal(t, "[2001:db8::1%5]:1", b.String())

	assert.Equal(t, sockaddr.FamilyUnknown, sockaddr.FromUDPAddr(nil).Family())
}

func TestString(t *testing.T) {
	assert.Equal(t, "unknown(family=1)", sockaddr.Unknown(1).String())
	assert.Equal(t, "ipv4", sockaddr.FamilyIPv4.String())
	assert.Equal(t, "ipv6", sockaddr.FamilyIPv6.String())
	assert.Equal(t, "unknown", sockaddr.FamilyUnknown.String())
}

func TestXORMappedAddress(t *testing.T) {
	for _, s := range []string{"203.0.113.9:61000", "[2001:db8::42]:1"} {
		a := parse(t, s)
		x, ok := a.XORMappedAddress()
		require.True(t, ok)
		assert.Equal(t, a, sockaddr.FromXORMappedAddress(x), s)
	}

	_, ok := sockaddr.Unknown(1).XORMappedAddress()
	assert.False(t, ok)
}
