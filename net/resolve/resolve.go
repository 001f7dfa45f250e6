// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

// Package resolve turns a host and service into socket address records,
// keeping only IPv4 and IPv6 results.
//
// Resolve follows a two-phase sizing contract: the Result always carries the
// total number of usable candidates, while at most len(buf) of them are
// written. Call once with an empty buffer to learn the count, or compare
// Total with len(Records) to detect truncation.
//
// There is no caching and no timeout of its own; bound a lookup with ctx.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/runetale/runeaddr/net/sockaddr"
	"go.uber.org/zap"
)

var ErrResolution = errors.New("address resolution failed")

// Backend is the name resolution facility. Lookup returns every candidate
// address it found, in the order it ranks them. Records of families other
// than IPv4 and IPv6 are allowed and get dropped by the Resolver.
type Backend interface {
	Lookup(ctx context.Context, host, service string) ([]sockaddr.Record, error)
}

type Result struct {
	// Records is the written prefix of the caller's buffer.
	Records []sockaddr.Record
	// Total is the number of candidates found, which may exceed
	// len(Records).
	Total int
}

func (r Result) Truncated() bool {
	return r.Total > len(r.Records)
}

type Resolver struct {
	backend Backend
	logger  *zap.SugaredLogger
}

type Option func(*Resolver)

func WithBackend(b Backend) Option {
	return func(r *Resolver) {
		r.backend = b
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New returns a Resolver using the system backend unless WithBackend says
// otherwise.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		backend: &SystemBackend{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks up host and service and copies the IPv4 and IPv6 candidates
// into buf. On failure buf is left untouched.
func (r *Resolver) Resolve(ctx context.Context, host, service string, buf []sockaddr.Record) (Result, error) {
	candidates, err := r.backend.Lookup(ctx, host, service)
	if err != nil {
		r.log().Warnf("address resolution failed for %s:%s", host, service)
		return Result{}, fmt.Errorf("%w for %s:%s: %w", ErrResolution, host, service, err)
	}

	var n, total int
	for i := range candidates {
		c := &candidates[i]
		switch c.Family() {
		case sockaddr.FamilyIPv4, sockaddr.FamilyIPv6:
		default:
			continue
		}
		if _, err := c.Addr(); err != nil {
			r.log().Debugf("dropping candidate for %s:%s, %s", host, service, err.Error())
			continue
		}

		total++
		if n < len(buf) {
			buf[n] = *c
			n++
		}
	}

	return Result{Records: buf[:n], Total: total}, nil
}

func (r *Resolver) log() *zap.SugaredLogger {
	if r.logger != nil {
		return r.logger
	}
	return zap.S().Named("resolve")
}

// Resolve resolves with the system backend.
func Resolve(ctx context.Context, host, service string, buf []sockaddr.Record) (Result, error) {
	return New().Resolve(ctx, host, service, buf)
}
