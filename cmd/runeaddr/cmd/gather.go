// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v2/ffcli"
	"github.com/runetale/runeaddr/net/gather"
)

type gatherArgs struct {
	common         commonArgs
	stun           string
	blackList      string
	allowLocal     bool
	allowTemporary bool
	timeout        time.Duration
}

func newGatherCmd() *ffcli.Command {
	args := &gatherArgs{}
	fs := flag.NewFlagSet("gather", flag.ExitOnError)
	args.common.register(fs)
	fs.StringVar(&args.stun, "stun", "", "comma separated stun urls for server reflexive candidates")
	fs.StringVar(&args.blackList, "blacklist", "", "comma separated interfaces to skip")
	fs.BoolVar(&args.allowLocal, "allow-local", false, "keep loopback and link-local addresses")
	fs.BoolVar(&args.allowTemporary, "allow-temporary", false, "keep ipv6 temporary addresses")
	fs.DurationVar(&args.timeout, "timeout", 10*time.Second, "gathering timeout")

	return &ffcli.Command{
		Name:       "gather",
		ShortUsage: "gather [flags]",
		ShortHelp:  "list the ice candidates this host would offer",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, rest []string) error {
			return execGather(ctx, args, rest)
		},
	}
}

func execGather(ctx context.Context, args *gatherArgs, rest []string) error {
	if len(rest) > 0 {
		return fmt.Errorf("too many arguments: %q", rest)
	}

	runelog, err := args.common.logger("runeaddr gather")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, args.timeout)
	defer cancel()

	candidates, err := gather.Gather(ctx, gather.Config{
		Filter: gather.Filter{
			AllowLocal:     args.allowLocal,
			AllowTemporary: args.allowTemporary,
			BlackList:      splitList(args.blackList),
		},
		STUN:          splitList(args.stun),
		LoggerFactory: runelog.LoggerFactory(),
	})
	if err != nil {
		return err
	}

	for _, c := range candidates {
		fmt.Fprintln(stdout, c.String())
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
