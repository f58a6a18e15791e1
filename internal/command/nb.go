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
	"github.com/staranto/lciochecks/internal/meta"
	"github.com/staranto/lciochecks/internal/notebook"
)

// notebookRoot is the directory argument, or nb.root from the config, made
// absolute against the starting directory.
func notebookRoot(cmd *cli.Command) string {
	m := GetMeta(cmd)
	root := cmd.Args().First()
	if root == "" {
		root, _ = config.GetString("nb.root", "docs")
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(m.StartingDir, root)
	}
	return root
}

func nbAction(pass func([]string, notebook.Options) ([]string, error), name string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		m := GetMeta(cmd)
		log.Debugf("Executing action for %v", m.Args[1:])

		if ShortCircuitTLDR(ctx, cmd, "nb") {
			return nil
		}

		root := notebookRoot(cmd)
		paths, err := notebook.Discover(root)
		if err != nil {
			return err
		}
		log.Debugf("notebooks: %v", paths)

		changed, err := pass(paths, notebook.Options{
			Tag:    cmd.String("tag"),
			DryRun: cmd.Bool("dry-run"),
			Out:    cmd.Root().Writer,
		})
		if err != nil {
			return fmt.Errorf("nb %s: %w", name, err)
		}

		verb := "Changed"
		if cmd.Bool("dry-run") {
			verb = "Would change"
		}
		fmt.Fprintf(cmd.Root().Writer, "%s %d of %d notebooks in %s.\n", verb, len(changed), len(paths), root)
		return nil
	}
}

// NbCommandBuilder constructs the cli.Command for "nb" and its hide and
// resize subcommands.
func NbCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	dryRun := &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"d"},
		Usage:   "print a diff of each change instead of writing it",
		Value:   false,
	}

	return &cli.Command{
		Name:      "nb",
		Usage:     "notebook hygiene",
		UsageText: `lciochecks nb <hide|resize> [root] [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:      "hide",
				Usage:     "hide the input of every cell",
				UsageText: `lciochecks nb hide [root] [options]`,
				Metadata: map[string]any{
					"meta": meta,
				},
				Flags: []cli.Flag{
					dryRun,
					tldrFlag,
					&cli.StringFlag{
						Name:    "tag",
						Usage:   "cell tag that hides the input",
						Sources: sources("nb", "tag", meta.Config.Source),
						Value:   notebook.DefaultTag,
						Validator: func(value string) error {
							return FlagValidators(value, JammedFlagValidator, NotEmptyValidator)
						},
					},
				},
				Action: nbAction(notebook.HideAllCode, "hide"),
			},
			{
				Name:      "resize",
				Usage:     "set a relative render width on image outputs",
				UsageText: `lciochecks nb resize [root] [options]`,
				Metadata: map[string]any{
					"meta": meta,
				},
				Flags: []cli.Flag{
					dryRun,
					tldrFlag,
				},
				Action: nbAction(notebook.ResizeImages, "resize"),
			},
		},
	}
}
