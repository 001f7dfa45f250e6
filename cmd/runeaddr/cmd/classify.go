// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/netip"

	"github.com/peterbourgon/ff/v2/ffcli"
	"github.com/runetale/runeaddr/net/sockaddr"
	"github.com/runetale/runeaddr/types/flagtype"
)

type classifyArgs struct {
	common  commonArgs
	port    uint16
	portSet bool
}

func newClassifyCmd() *ffcli.Command {
	args := &classifyArgs{}
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	args.common.register(fs)
	fs.Var(flagtype.PortValue(&args.port, &args.portSet, 0), "port", "replace the port of every address")

	return &ffcli.Command{
		Name:       "classify",
		ShortUsage: "classify [flags] <addr[:port]>...",
		ShortHelp:  "show family, size, locality and mapped forms of addresses",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, rest []string) error {
			return execClassify(ctx, args, rest)
		},
	}
}

func execClassify(ctx context.Context, args *classifyArgs, rest []string) error {
	if len(rest) == 0 {
		return flag.ErrHelp
	}

	if _, err := args.common.logger("runeaddr classify"); err != nil {
		return err
	}

	for _, arg := range rest {
		a, err := parseAddr(arg)
		if err != nil {
			return err
		}
		if args.portSet {
			if err := a.SetPort(args.port); err != nil {
				return err
			}
		}
		fmt.Fprintln(stdout, describe(a))
	}
	return nil
}

// parseAddr accepts "ip", "ip:port" and "[ipv6]:port".
func parseAddr(s string) (sockaddr.Addr, error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return sockaddr.FromAddrPort(ap), nil
	}
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return sockaddr.Addr{}, fmt.Errorf("invalid address %q", s)
	}
	return sockaddr.FromAddrPort(netip.AddrPortFrom(ip, 0)), nil
}

func describe(a sockaddr.Addr) string {
	port, _ := a.PortOK()
	line := fmt.Sprintf("%s family=%s len=%d port=%d local=%t temporary=%t",
		a, a.Family(), a.Len(), port, a.IsLocal(), a.IsTemporary())

	alt := a
	switch {
	case alt.Unmap():
		line += fmt.Sprintf(" unmapped=%s", alt)
	case alt.Map():
		line += fmt.Sprintf(" mapped=%s", alt)
	}
	return line
}
