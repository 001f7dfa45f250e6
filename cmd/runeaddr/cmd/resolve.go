// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/peterbourgon/ff/v2/ffcli"
	"github.com/runetale/runeaddr/net/resolve"
	"github.com/runetale/runeaddr/net/sockaddr"
)

type resolveArgs struct {
	common     commonArgs
	backend    string
	resolvConf string
	max        int
	timeout    time.Duration
}

func newResolveCmd() *ffcli.Command {
	args := &resolveArgs{}
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	args.common.register(fs)
	fs.StringVar(&args.backend, "backend", "system", "resolver backend, system or dns")
	fs.StringVar(&args.resolvConf, "resolv-conf", resolve.DefaultResolvConf, "nameserver config for the dns backend")
	fs.IntVar(&args.max, "max", 16, "maximum number of records to keep, 0 only counts")
	fs.DurationVar(&args.timeout, "timeout", 10*time.Second, "resolution timeout")

	return &ffcli.Command{
		Name:       "resolve",
		ShortUsage: "resolve [flags] <host> [service]",
		ShortHelp:  "resolve a host and service into ipv4 and ipv6 socket addresses",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, rest []string) error {
			return execResolve(ctx, args, rest)
		},
	}
}

func execResolve(ctx context.Context, args *resolveArgs, rest []string) error {
	if len(rest) == 0 || len(rest) > 2 {
		return flag.ErrHelp
	}
	host, service := rest[0], ""
	if len(rest) == 2 {
		service = rest[1]
	}

	runelog, err := args.common.logger("runeaddr resolve")
	if err != nil {
		return err
	}

	backend, err := newBackend(args.backend, args.resolvConf)
	if err != nil {
		return err
	}

	if args.max < 0 {
		return fmt.Errorf("invalid -max %d", args.max)
	}

	ctx, cancel := context.WithTimeout(ctx, args.timeout)
	defer cancel()

	buf := make([]sockaddr.Record, args.max)
	var res resolve.Result
	if backend == nil {
		// the system backend warns through the global logger runelog installed
		res, err = resolve.Resolve(ctx, host, service, buf)
	} else {
		r := resolve.New(resolve.WithBackend(backend), resolve.WithLogger(runelog.Logger))
		res, err = r.Resolve(ctx, host, service, buf)
	}
	if err != nil {
		return err
	}

	for i := range res.Records {
		a, err := res.Records[i].Addr()
		if err != nil {
			runelog.Logger.Warnf("skipping record %d, %s", i, err.Error())
			continue
		}
		fmt.Fprintf(stdout, "%-4s %-45s len=%d local=%t temporary=%t\n",
			a.Family(), a.String(), res.Records[i].Len, a.IsLocal(), a.IsTemporary())
	}

	if res.Truncated() {
		fmt.Fprintf(stdout, "%d candidates, %d shown\n", res.Total, len(res.Records))
	} else {
		fmt.Fprintf(stdout, "%d candidates\n", res.Total)
	}

	return nil
}

// newBackend returns nil for the system backend.
func newBackend(name, resolvConf string) (resolve.Backend, error) {
	switch name {
	case "system":
		return nil, nil
	case "dns":
		return resolve.NewDNSBackend(resolvConf)
	default:
		return nil, fmt.Errorf("unknown backend %q, want system or dns", name)
	}
}
