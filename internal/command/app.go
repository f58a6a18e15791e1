// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/lciochecks/internal/config"
	"github.com/staranto/lciochecks/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the lciochecks
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// A missing config file is fine, the shipped defaults apply.
	cfg, err := config.Load(ns)
	if err != nil {
		log.Debugf("config: %v", err)
	}

	settings, err := config.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		Settings:    settings,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "lciochecks",
		Usage: "LCIO sample checks",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "lciochecks version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		McGenCommandBuilder(app, meta),
		McSimCommandBuilder(app, meta),
		HiggsCommandBuilder(app, meta),
		NbCommandBuilder(app, meta),
		LintCommandBuilder(app, meta),
		CacheCommandBuilder(app, meta),
		PublishCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range allCommands(app.Commands) {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

func allCommands(cmds []*cli.Command) []*cli.Command {
	var out []*cli.Command
	for _, c := range cmds {
		out = append(out, c)
		out = append(out, allCommands(c.Commands)...)
	}
	return out
}
