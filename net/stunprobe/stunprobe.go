// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

// Package stunprobe asks a STUN server for the address this host is seen
// from.
package stunprobe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/pion/stun"
	"github.com/runetale/runeaddr/net/sockaddr"
)

const (
	DefaultServer  = "stun.l.google.com:19302"
	defaultTimeout = 5 * time.Second
	maxMessageSize = 1500
)

var ErrNoMappedAddress = errors.New("no mapped address in response")

// Probe sends one binding request to server over network ("udp", "udp4" or
// "udp6") and returns the reflexive transport address from the response.
// XOR-MAPPED-ADDRESS is preferred; MAPPED-ADDRESS is accepted from servers
// that predate RFC 5389. Without a ctx deadline the probe gives up after
// five seconds.
func Probe(ctx context.Context, network, server string) (sockaddr.Addr, error) {
	raddr, err := net.ResolveUDPAddr(network, server)
	if err != nil {
		return sockaddr.Addr{}, fmt.Errorf("resolve stun server %s: %w", server, err)
	}

	conn, err := net.DialUDP(network, nil, raddr)
	if err != nil {
		return sockaddr.Addr{}, fmt.Errorf("dial stun server %s: %w", server, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	deadline := time.Now().Add(defaultTimeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return sockaddr.Addr{}, err
	}

	req, err := stun.Build(stun.TransactionID, stun.BindingRequest, stun.Fingerprint)
	if err != nil {
		return sockaddr.Addr{}, err
	}
	if _, err := req.WriteTo(conn); err != nil {
		return sockaddr.Addr{}, fmt.Errorf("send binding request: %w", err)
	}

	buf := make([]byte, maxMessageSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return sockaddr.Addr{}, ctx.Err()
			}
			return sockaddr.Addr{}, fmt.Errorf("read binding response: %w", err)
		}

		res := &stun.Message{Raw: buf[:n]}
		if err := res.Decode(); err != nil {
			continue
		}
		// stray datagrams from an earlier probe on the same port
		if res.TransactionID != req.TransactionID {
			continue
		}
		return mappedAddress(res)
	}
}

func mappedAddress(res *stun.Message) (sockaddr.Addr, error) {
	if res.Type != stun.BindingSuccess {
		return sockaddr.Addr{}, fmt.Errorf("unexpected stun response %s", res.Type)
	}

	var xorAddr stun.XORMappedAddress
	if err := xorAddr.GetFrom(res); err == nil {
		return sockaddr.FromXORMappedAddress(xorAddr), nil
	}

	var mapped stun.MappedAddress
	if err := mapped.GetFrom(res); err != nil {
		return sockaddr.Addr{}, ErrNoMappedAddress
	}
	return sockaddr.FromUDPAddr(&net.UDPAddr{IP: mapped.IP, Port: mapped.Port}), nil
}
