// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package cmd

// runeaddr inspects transport addresses the way the connectivity code sees
// them: how they resolve, how they classify, and which of them survive
// candidate gathering.

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/peterbourgon/ff/v2"
	"github.com/peterbourgon/ff/v2/ffcli"
	"github.com/runetale/runeaddr/paths"
	"github.com/runetale/runeaddr/runelog"
)

const envVarPrefix = "RUNEADDR"

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

// commonArgs are the flags every subcommand carries. Each can also be set
// through RUNEADDR_<FLAG> or a plain config file given with -config.
type commonArgs struct {
	logFile  string
	logLevel string
	debug    bool
	config   string
}

func (c *commonArgs) register(fs *flag.FlagSet) {
	fs.StringVar(&c.logFile, "logfile", paths.DefaultLogFile(), "set logfile path, empty for stderr only")
	fs.StringVar(&c.logLevel, "loglevel", runelog.WarningLevelStr, "set log level")
	fs.BoolVar(&c.debug, "debug", false, "for debug")
	fs.StringVar(&c.config, "config", "", "plain config file, one 'flag value' per line")
}

func (c *commonArgs) logger(name string) (*runelog.Runelog, error) {
	return runelog.NewRunelog(name, c.logLevel, c.logFile, c.debug)
}

func ffOptions() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(envVarPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	}
}

func Run(args []string) error {
	if len(args) == 1 && (args[0] == "-V" || args[0] == "--version" || args[0] == "-v") {
		args = []string{"version"}
	}

	fs := flag.NewFlagSet("runeaddr", flag.ExitOnError)
	cmd := &ffcli.Command{
		Name:       "runeaddr",
		ShortUsage: "runeaddr <subcommands> [command flags]",
		ShortHelp:  "inspect, resolve and classify transport addresses.",
		LongHelp: strings.TrimSpace(`
All flags can use a single or double hyphen.

For help on subcommands, prefix with -help.

Flags and options are subject to change.
`),
		Subcommands: []*ffcli.Command{
			newResolveCmd(),
			newClassifyCmd(),
			newGatherCmd(),
			newStunCmd(),
			newVersionCmd(),
		},
		FlagSet: fs,
		Exec:    func(context.Context, []string) error { return flag.ErrHelp },
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}

	if err := cmd.Run(context.Background()); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	return nil
}
