// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/lciochecks/internal/cache"
	"github.com/staranto/lciochecks/internal/cacheutil"
	"github.com/staranto/lciochecks/internal/meta"
	"github.com/staranto/lciochecks/internal/output"
	"github.com/staranto/lciochecks/internal/sample"
)

var ErrNoEvents = errors.New("no events found")

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr lciochecks <subcmd>` and returns true so the caller can exit
// early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "lciochecks", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OutputOptions collects the global output flags of cmd.
func OutputOptions(cmd *cli.Command) output.Options {
	return output.Options{
		Format: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// Displayer prints what the cache saves or loads: image paths as one line,
// tables through the regular output routine.
type Displayer struct {
	Out     io.Writer
	Options output.Options
}

func (d *Displayer) ShowImage(path string) error {
	_, err := fmt.Fprintf(d.Out, "%s\n", path)
	return err
}

func (d *Displayer) ShowTable(t *cache.Table) error {
	rows, columns := output.TableRows(t)
	return output.SliceDiceSpit(rows, columns, d.Options, d.Out)
}

// NewStore builds the image cache for a check command from the resolved
// settings. LCIOCHECKS_CACHE_DIR overrides the directory and LCIOCHECKS_CACHE
// can turn the cache off.
func NewStore(cmd *cli.Command, w io.Writer) *cache.Store {
	m := GetMeta(cmd)

	dir := m.Settings.ImgCache
	if d := os.Getenv("LCIOCHECKS_CACHE_DIR"); d != "" {
		dir = d
	}

	return &cache.Store{
		Dir:      dir,
		DPI:      m.Settings.ImgDPI,
		AltExt:   m.Settings.ImgExt,
		RedoAll:  m.Settings.ImgRedoAll,
		Disabled: !cacheutil.Enabled(),
		Display:  &Displayer{Out: w, Options: OutputOptions(cmd)},
	}
}

// CacheOptions reads the per-call cache switches from cmd.
func CacheOptions(cmd *cli.Command) cache.Options {
	return cache.Options{
		Redo:   cmd.Bool("redo"),
		NoSave: cmd.Bool("no-save"),
	}
}

// LoadEvents reads the files named on the command line, or every file in the
// data directory when none are given.
func LoadEvents(ctx context.Context, cmd *cli.Command) ([]sample.Event, error) {
	m := GetMeta(cmd)

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		var err error
		if paths, err = sample.Discover(m.Settings.DataDir); err != nil {
			return nil, err
		}
	}
	log.Debugf("paths: %v", paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoEvents, m.Settings.DataDir)
	}

	events, err := sample.Load(ctx, paths, sample.Options{
		MCCollection: cmd.String("mc-collection"),
		RCCollection: cmd.String("rc-collection"),
		MaxEvents:    int(cmd.Int("max-events")),
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	return events, nil
}

// CheckFunc fills the cache from events. It returns what LoadOrMake returned.
type CheckFunc func(context.Context, *cli.Command, *cache.Store, []sample.Event) ([]cache.Artifact, error)

// CheckCommandBuilder is a helper that constructs a cli.Command for the check
// subcommands (mc-gen, mc-sim, higgs) using a consistent pattern. The builder
// wires metadata, adds the tldr, check and global flags, and sets up
// validators. Each check runs in order on the same events.
type CheckCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Checks    []CheckFunc
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (ccb *CheckCommandBuilder) Build() *cli.Command {
	name := ccb.Name
	checks := ccb.Checks
	return &cli.Command{
		Name:      ccb.Name,
		Usage:     ccb.Usage,
		UsageText: ccb.UsageText,
		Metadata: map[string]any{
			"meta": ccb.Meta,
		},
		Flags: append(ccb.Flags, append(append([]cli.Flag{
			tldrFlag,
		}, NewCheckFlags(ccb.Name, ccb.Meta)...), NewGlobalFlags(ccb.Name, ccb.Meta.Config.Source)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("tldr") {
				return ctx, nil
			}
			return ctx, CheckFlagsValidator(ctx, c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runChecks(ctx, c, name, checks)
		},
	}
}

func runChecks(ctx context.Context, cmd *cli.Command, name string, checks []CheckFunc) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	// Bail out early if we're just dumping tldr.
	if ShortCircuitTLDR(ctx, cmd, name) {
		return nil
	}

	events, err := LoadEvents(ctx, cmd)
	if err != nil {
		return err
	}

	store := NewStore(cmd, cmd.Root().Writer)
	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := check(ctx, cmd, store, events); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
