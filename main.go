// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/lciochecks/internal/cacheutil"
	"github.com/staranto/lciochecks/internal/command"
	"github.com/staranto/lciochecks/internal/config"
	mylog "github.com/staranto/lciochecks/internal/log"
	"github.com/staranto/lciochecks/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	if hasArg(args, "--version", "-v") {
		fmt.Println(version.Version)
		return 0
	}

	// A cache dir that cannot be created only costs us the log file.
	dir, ok, err := cacheutil.EnsureBaseDir()
	if err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if ok {
		closeLog, err := mylog.EnableFile(dir, command.GetMeta(app).Settings.Verbose)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		defer closeLog() //nolint:errcheck
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands an argument set from the config. A "@name" argument
// is replaced by the list at <command>.<name>; without one, <command>.defaults
// is inserted right after the command.
func mangleArguments(args []string) []string {
	if hasArg(args, "--help", "-h") {
		return args
	}

	// args[0] is the executable and args[1] the command.
	head, rest := args[:2:2], args[2:]
	set := "defaults"
	if i := slices.IndexFunc(rest, func(a string) bool {
		return len(a) > 1 && a[0] == '@'
	}); i >= 0 {
		set = rest[i][1:]
		head = append(head, rest[:i]...)
		rest = rest[i+1:]
	}

	out := slices.Clone(head)
	expansion, _ := config.GetStringSlice(args[1] + "." + set)
	for _, item := range expansion {
		out = append(out, strings.Fields(item)...)
	}
	out = append(out, rest...)

	log.Debugf("argument set %s: %v", set, out)
	return out
}

func hasArg(args []string, names ...string) bool {
	return slices.ContainsFunc(args, func(a string) bool {
		return slices.Contains(names, a)
	})
}
