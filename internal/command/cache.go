// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/lciochecks/internal/cacheutil"
	"github.com/staranto/lciochecks/internal/meta"
	"github.com/staranto/lciochecks/internal/output"
)

var cacheColumns = []string{"name", "kind", "size", "modified"}

func cacheRows(entries []cacheutil.Entry) []map[string]interface{} {
	rows := make([]map[string]interface{}, len(entries))
	for i, e := range entries {
		rows[i] = map[string]interface{}{
			"name":     e.Name,
			"kind":     e.Kind,
			"size":     e.Size,
			"modified": e.ModTime,
			"path":     e.Path,
		}
	}
	return rows
}

// humanizeRows rewrites size and modified for people. Rows are already
// filtered and sorted on the raw values.
func humanizeRows(rows []map[string]interface{}) {
	for _, r := range rows {
		if size, ok := r["size"].(int64); ok {
			r["size"] = humanize.Bytes(uint64(size)) //nolint:gosec
		}
		if t, ok := r["modified"].(time.Time); ok {
			r["modified"] = humanize.Time(t)
		}
	}
}

// CacheLsCommandAction lists the artifacts in the cache directory.
func CacheLsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "cache") {
		return nil
	}

	entries, err := cacheutil.List()
	if err != nil {
		return err
	}

	opts := OutputOptions(cmd)
	rows := output.FilterAndSort(cacheRows(entries), opts.Filter, opts.Sort)
	opts.Filter, opts.Sort = "", ""
	if opts.Format == "" || opts.Format == "text" {
		humanizeRows(rows)
	}

	return output.SliceDiceSpit(rows, cacheColumns, opts, cmd.Root().Writer)
}

// CachePurgeCommandAction removes artifacts older than --hours.
func CachePurgeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "cache") {
		return nil
	}

	hours := int(cmd.Int("hours"))
	if !cmd.IsSet("hours") {
		hours = m.Settings.CleanHours
	}
	if err := FlagValidators(hours, NonNegativeValidator); err != nil {
		return fmt.Errorf("--hours %w", err)
	}

	removed, err := cacheutil.Purge(hours)
	if err != nil {
		return err
	}
	for _, p := range removed {
		fmt.Fprintf(cmd.Root().Writer, "Removed %s\n", p)
	}
	fmt.Fprintf(cmd.Root().Writer, "Purged %d cache files.\n", len(removed))
	return nil
}

// CacheCommandBuilder constructs the cli.Command for "cache" and its ls and
// purge subcommands.
func CacheCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "cache",
		Usage:     "inspect and clean the image cache",
		UsageText: `lciochecks cache <ls|purge> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "list cached artifacts",
				UsageText: `lciochecks cache ls [options]`,
				Metadata: map[string]any{
					"meta": meta,
				},
				Flags:  append([]cli.Flag{tldrFlag}, NewGlobalFlags("cache", meta.Config.Source)...),
				Action: CacheLsCommandAction,
			},
			{
				Name:      "purge",
				Usage:     "remove cached artifacts older than --hours",
				UsageText: `lciochecks cache purge [options]`,
				Metadata: map[string]any{
					"meta": meta,
				},
				Flags: []cli.Flag{
					tldrFlag,
					&cli.IntFlag{
						Name:    "hours",
						Usage:   "age in hours above which artifacts are removed. 0 keeps all",
						Sources: sources("cache", "clean", meta.Config.Source),
						Value:   0,
					},
				},
				Action: CachePurgeCommandAction,
			},
		},
	}
}
