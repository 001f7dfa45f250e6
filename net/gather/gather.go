// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

// Package gather collects ICE candidates for this host, keeping only the
// addresses a Filter accepts.
package gather

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"github.com/pion/ice/v2"
	"github.com/pion/logging"
	"github.com/runetale/runeaddr/net/sockaddr"
)

type Candidate struct {
	// host, srflx
	Type string
	// udp4, udp6
	Network string
	Addr    sockaddr.Addr
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s %s %s", c.Type, c.Network, c.Addr)
}

type Config struct {
	Filter Filter
	// NetworkTypes defaults to UDP over IPv4 and IPv6.
	NetworkTypes []ice.NetworkType
	// STUN server URLs, e.g. stun:stun.l.google.com:19302. When set,
	// server reflexive candidates are gathered too.
	STUN          []string
	LoggerFactory logging.LoggerFactory
}

// Gather runs an ICE agent until candidate gathering completes or ctx is
// done.
func Gather(ctx context.Context, cfg Config) ([]Candidate, error) {
	urls := make([]*ice.URL, 0, len(cfg.STUN))
	for _, raw := range cfg.STUN {
		u, err := ice.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid stun url %q: %w", raw, err)
		}
		urls = append(urls, u)
	}

	candidateTypes := []ice.CandidateType{ice.CandidateTypeHost}
	if len(urls) > 0 {
		candidateTypes = append(candidateTypes, ice.CandidateTypeServerReflexive)
	}

	networkTypes := cfg.NetworkTypes
	if len(networkTypes) == 0 {
		networkTypes = []ice.NetworkType{ice.NetworkTypeUDP4, ice.NetworkTypeUDP6}
	}

	agent, err := ice.NewAgent(&ice.AgentConfig{
		MulticastDNSMode: ice.MulticastDNSModeDisabled,
		NetworkTypes:     networkTypes,
		Urls:             urls,
		CandidateTypes:   candidateTypes,
		IPFilter:         cfg.Filter.IPFilter(),
		InterfaceFilter:  cfg.Filter.InterfaceFilter(),
		LoggerFactory:    cfg.LoggerFactory,
	})
	if err != nil {
		return nil, err
	}
	defer agent.Close()

	var (
		mu         sync.Mutex
		candidates []Candidate
		done       = make(chan struct{})
	)
	err = agent.OnCandidate(func(c ice.Candidate) {
		if c == nil {
			close(done)
			return
		}

		cand, ok := fromICE(c)
		if !ok || !cfg.Filter.Accept(cand.Addr) {
			return
		}

		mu.Lock()
		candidates = append(candidates, cand)
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	if err := agent.GatherCandidates(); err != nil {
		return nil, err
	}

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	return candidates, nil
}

// fromICE converts c; candidates named by mDNS hostnames carry no address
// and are skipped.
func fromICE(c ice.Candidate) (Candidate, bool) {
	ip, err := netip.ParseAddr(c.Address())
	if err != nil {
		return Candidate{}, false
	}

	return Candidate{
		Type:    c.Type().String(),
		Network: c.NetworkType().String(),
		Addr:    sockaddr.FromAddrPort(netip.AddrPortFrom(ip.Unmap(), uint16(c.Port()))),
	}, true
}
