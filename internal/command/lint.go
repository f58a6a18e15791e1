// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/lciochecks/internal/config"
	"github.com/staranto/lciochecks/internal/lint"
	"github.com/staranto/lciochecks/internal/meta"
	"github.com/staranto/lciochecks/internal/output"
)

// LintCommandAction is the action handler for the "lint" subcommand. It scans
// the tree for cache names and fails when one is used twice.
func LintCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "lint") {
		return nil
	}

	root := cmd.Args().First()
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(m.StartingDir, root)
	}

	exclude, err := config.GetStringSlice("lint.exclude")
	if err != nil || len(exclude) == 0 {
		exclude = lint.DefaultExclude
	}

	uses, err := lint.Scan(root, exclude)
	if err != nil {
		return err
	}

	if cmd.Bool("list") {
		rows := make([]map[string]interface{}, len(uses))
		for i, u := range uses {
			rel, err := filepath.Rel(root, u.File)
			if err != nil {
				rel = u.File
			}
			rows[i] = map[string]interface{}{"name": u.Name, "file": rel, "line": u.Line}
		}
		if err := output.SliceDiceSpit(rows, []string{"name", "file", "line"}, OutputOptions(cmd), cmd.Root().Writer); err != nil {
			return err
		}
	}

	if err := lint.FindDuplicates(uses); err != nil {
		return err
	}

	if !cmd.Bool("list") {
		fmt.Fprintf(cmd.Root().Writer, "%d cache names in %s are unique.\n", len(uses), root)
	}
	return nil
}

// LintCommandBuilder constructs the cli.Command for "lint".
func LintCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "check that cache names are unique",
		UsageText: `lciochecks lint [root] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "list every cache name found",
				Sources: sources("lint", "list", meta.Config.Source),
				Value:   false,
			},
			tldrFlag,
		}, NewGlobalFlags("lint", meta.Config.Source)...),
		Action: LintCommandAction,
	}
}
