// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v2/ffcli"
	"github.com/runetale/runeaddr/net/stunprobe"
	"github.com/runetale/runeaddr/types/flagtype"
)

type stunArgs struct {
	common  commonArgs
	server  string
	network string
	timeout time.Duration
}

func newStunCmd() *ffcli.Command {
	args := &stunArgs{}
	fs := flag.NewFlagSet("stun", flag.ExitOnError)
	args.common.register(fs)
	fs.StringVar(&args.server, "server", stunprobe.DefaultServer, "stun server host[:port]")
	fs.StringVar(&args.network, "network", "udp4", "udp, udp4 or udp6")
	fs.DurationVar(&args.timeout, "timeout", 5*time.Second, "probe timeout")

	return &ffcli.Command{
		Name:       "stun",
		ShortUsage: "stun [flags]",
		ShortHelp:  "discover the reflexive address with a stun binding request",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, rest []string) error {
			return execStun(ctx, args, rest)
		},
	}
}

func execStun(ctx context.Context, args *stunArgs, rest []string) error {
	if len(rest) > 0 {
		return fmt.Errorf("too many arguments: %q", rest)
	}

	runelog, err := args.common.logger("runeaddr stun")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, args.timeout)
	defer cancel()

	server := stunServer(args.server)
	a, err := stunprobe.Probe(ctx, args.network, server)
	if err != nil {
		runelog.Logger.Warnf("stun probe to %s failed, %s", server, err.Error())
		return err
	}

	fmt.Fprintln(stdout, describe(a))
	return nil
}

// stunServer adds the registered stun port to a server given without one.
func stunServer(s string) string {
	if _, _, err := net.SplitHostPort(s); err == nil {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	return net.JoinHostPort(s, strconv.Itoa(flagtype.DefaultSTUNPort))
}
