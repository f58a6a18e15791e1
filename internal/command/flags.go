// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/lciochecks/internal/config"
	"github.com/staranto/lciochecks/internal/meta"
)

var tldrFlag *cli.BoolFlag = &cli.BoolFlag{
	Name:        "tldr",
	Usage:       "show tldr page",
	Hidden:      !pathHas("tldr"),
	HideDefault: true,
}

// sources chains the namespaced and global config keys for a flag. Keys live
// under the lcio_checks section and use underscores.
func sources(ns, key, path string) cli.ValueSourceChain {
	chain := []cli.ValueSource{}
	if ns != "" {
		chain = append(chain, yaml.YAML(config.Section+"."+ns+"."+key, altsrc.StringSourcer(path)))
	}
	chain = append(chain, yaml.YAML(config.Section+"."+key, altsrc.StringSourcer(path)))
	return cli.NewValueSourceChain(chain...)
}

// NewGlobalFlags returns the output flags shared by every command that prints
// a table. params[0] is the command namespace, params[1] the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	ns, path := params[0], ""
	if len(params) > 1 {
		path = params[1]
	}

	flags = []cli.Flag{
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: sources(ns, "color", path),
			Value:   term.IsTerminal(int(os.Stdout.Fd())), //nolint:gosec
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: sources(ns, "output", path),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: sources(ns, "sort", path),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: sources(ns, "titles", path),
			Value:   true,
		},
	}

	return
}

// NewCheckFlags returns the flags of the commands that read events and fill
// the image cache. Defaults come from the resolved settings.
func NewCheckFlags(ns string, m meta.Meta) []cli.Flag {
	path := m.Config.Source
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "redo",
			Aliases: []string{"r"},
			Usage:   "recompute results even when they are cached",
			Sources: sources(ns, "redo", path),
			Value:   false,
		},
		&cli.BoolFlag{
			Name:    "no-save",
			Usage:   "do not write recomputed results to the cache. Needs --redo",
			Sources: sources(ns, "no_save", path),
			Value:   false,
		},
		&cli.IntFlag{
			Name:    "max-events",
			Aliases: []string{"n"},
			Usage:   "stop reading after this many events. 0 reads all",
			Sources: sources(ns, "max_events", path),
			Value:   0,
		},
		&cli.StringFlag{
			Name:    "mc-collection",
			Usage:   "name of the MC particle collection",
			Sources: sources(ns, "mc_collection", path),
			Value:   m.Settings.MCCollection,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
			},
		},
		&cli.StringFlag{
			Name:    "rc-collection",
			Usage:   "name of the reconstructed particle collection",
			Sources: sources(ns, "rc_collection", path),
			Value:   m.Settings.RCCollection,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
			},
		},
		&cli.FloatFlag{
			Name:    "sqrt-s",
			Usage:   "center of mass energy in GeV",
			Sources: sources(ns, "sqrt_s", path),
			Value:   m.Settings.SqrtS,
		},
	}
}

// pathHas checks if the given binary is on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
