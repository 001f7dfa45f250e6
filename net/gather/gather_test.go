// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package gather_test

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/pion/ice/v2"
	"github.com/runetale/runeaddr/net/gather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

func TestIPFilter(t *testing.T) {
	tests := []struct {
		ip     string
		filter gather.Filter
		want   bool
	}{
		{"127.0.0.1", gather.Filter{}, false},
		{"169.254.3.3", gather.Filter{}, false},
		{"fe80::1", gather.Filter{}, false},
		{"::1", gather.Filter{}, false},
		{"192.0.2.1", gather.Filter{}, true},
		{"2001:db8::211:22ff:fe33:4455", gather.Filter{}, true},
		{"2001:db8::9c3e:5d1a:77b0:1", gather.Filter{}, false},
		{"2001:db8::9c3e:5d1a:77b0:1", gather.Filter{AllowTemporary: true}, true},
		{"127.0.0.1", gather.Filter{AllowLocal: true}, true},
		{"fe80::9c3e:5d1a:77b0:1", gather.Filter{AllowLocal: true}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.filter.IPFilter()(net.ParseIP(tt.ip)), "%s %+v", tt.ip, tt.filter)
	}
}

func TestInterfaceFilter(t *testing.T) {
	all := gather.Filter{}.InterfaceFilter()
	assert.True(t, all("eth0"))
	assert.True(t, all("wg0"))

	f := gather.Filter{BlackList: []string{"wg0", "docker0"}}.InterfaceFilter()
	assert.True(t, f("eth0"))
	assert.False(t, f("wg0"))
	assert.False(t, f("docker0"))
}

func TestGatherHostCandidates(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := gather.Filter{}
	candidates, err := gather.Gather(ctx, gather.Config{
		Filter:       filter,
		NetworkTypes: []ice.NetworkType{ice.NetworkTypeUDP4},
	})
	require.NoError(t, err)

	for _, c := range candidates {
		assert.Equal(t, "host", c.Type)
		assert.Equal(t, "udp4", c.Network)
		assert.True(t, filter.Accept(c.Addr), c.String())
		assert.NotZero(t, c.Addr.Port())
	}
}

func TestGatherBadURL(t *testing.T) {
	_, err := gather.Gather(context.Background(), gather.Config{STUN: []string{"http://example.com"}})
	assert.Error(t, err)
}
