// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package stunprobe_test

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/pion/stun"
	"github.com/runetale/runeaddr/net/sockaddr"
	"github.com/runetale/runeaddr/net/stunprobe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// startServer answers every binding request with the attributes built by
// reply from the requester's address.
func startServer(t *testing.T, reply func(from sockaddr.Addr) []stun.Setter) string {
	t.Helper()
	return startServerOn(t, "udp4", "127.0.0.1:0", reply)
}

func startServerOn(t *testing.T, network, address string, reply func(from sockaddr.Addr) []stun.Setter) string {
	t.Helper()

	pc, err := net.ListenPacket(network, address)
	require.NoError(t, err)
	t.Cleanup(func() {
		pc.Close()
	})

	go func() {
		buf := make([]byte, 1500)
		for {
			n, from, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			req := &stun.Message{Raw: append([]byte{}, buf[:n]...)}
			if err := req.Decode(); err != nil {
				continue
			}

			setters := []stun.Setter{stun.NewTransactionIDSetter(req.TransactionID), stun.BindingSuccess}
			setters = append(setters, reply(sockaddr.FromUDPAddr(from.(*net.UDPAddr)))...)
			res, err := stun.Build(setters...)
			if err != nil {
				continue
			}
			_, _ = pc.WriteTo(res.Raw, from)
		}
	}()

	return pc.LocalAddr().String()
}

func TestProbeXORMappedAddress(t *testing.T) {
	server := startServer(t, func(from sockaddr.Addr) []stun.Setter {
		x, ok := from.XORMappedAddress()
		if !assert.True(t, ok) {
			return nil
		}
		return []stun.Setter{&x, stun.Fingerprint}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := stunprobe.Probe(ctx, "udp4", server)
	require.NoError(t, err)
	assert.Equal(t, sockaddr.FamilyIPv4, a.Family())
	assert.Equal(t, [4]byte{127, 0, 0, 1}, a.IP4())
	assert.NotZero(t, a.Port())
	assert.True(t, a.IsLocal())
}

func TestProbeIPv6(t *testing.T) {
	if !nettest.SupportsIPv6() {
		t.Skip("ipv6 is not supported")
	}

	server := startServerOn(t, "udp6", "[::1]:0", func(from sockaddr.Addr) []stun.Setter {
		x, ok := from.XORMappedAddress()
		if !assert.True(t, ok) {
			return nil
		}
		return []stun.Setter{&x}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := stunprobe.Probe(ctx, "udp6", server)
	require.NoError(t, err)
	assert.Equal(t, sockaddr.FamilyIPv6, a.Family())
	assert.True(t, a.IsLocal())
	assert.False(t, a.IsTemporary())
}

func TestProbeMappedAddressFallback(t *testing.T) {
	server := startServer(t, func(sockaddr.Addr) []stun.Setter {
		return []stun.Setter{&stun.MappedAddress{IP: net.IPv4(192, 0, 2, 7), Port: 40000}}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := stunprobe.Probe(ctx, "udp4", server)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.7:40000", a.String())
}

func TestProbeNoAddress(t *testing.T) {
	server := startServer(t, func(sockaddr.Addr) []stun.Setter {
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := stunprobe.Probe(ctx, "udp4", server)
	assert.True(t, errors.Is(err, stunprobe.ErrNoMappedAddress))
}

func TestProbeTimeout(t *testing.T) {
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err = stunprobe.Probe(ctx, "udp4", pc.LocalAddr().String())
	assert.Error(t, err)
}
