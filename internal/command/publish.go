// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/lciochecks/internal/cacheutil"
	"github.com/staranto/lciochecks/internal/meta"
	"github.com/staranto/lciochecks/internal/output"
	"github.com/staranto/lciochecks/internal/publish"
)

// newS3 is replaced in tests.
var newS3 = func(ctx context.Context, opts ...publish.Option) (publish.PutObjectAPI, error) {
	return publish.NewS3(ctx, opts...)
}

// selectEntries applies --filter to the cache listing, keeping the name order.
func selectEntries(entries []cacheutil.Entry, filter string) []cacheutil.Entry {
	byPath := make(map[string]cacheutil.Entry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}

	var out []cacheutil.Entry
	for _, r := range output.FilterAndSort(cacheRows(entries), filter, "name") {
		out = append(out, byPath[r["path"].(string)])
	}
	return out
}

// PublishCommandAction uploads the cached artifacts to S3.
func PublishCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "publish") {
		return nil
	}

	entries, err := cacheutil.List()
	if err != nil {
		return err
	}
	entries = selectEntries(entries, cmd.String("filter"))
	if len(entries) == 0 {
		fmt.Fprintln(cmd.Root().Writer, "Nothing to publish.")
		return nil
	}

	client, err := newS3(ctx,
		publish.WithProfile(cmd.String("profile")),
		publish.WithRegion(cmd.String("region")),
		publish.WithEndpoint(cmd.String("endpoint")),
	)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}

	results, err := publish.Publish(ctx, client, cmd.String("bucket"), cmd.String("prefix"), entries)
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, len(results))
	for i, r := range results {
		rows[i] = map[string]interface{}{"name": r.Name, "key": r.Key, "size": r.Size}
	}
	opts := OutputOptions(cmd)
	opts.Filter = ""
	return output.SliceDiceSpit(rows, []string{"name", "key", "size"}, opts, cmd.Root().Writer)
}

// PublishCommandBuilder constructs the cli.Command for "publish".
func PublishCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	src := meta.Config.Source
	return &cli.Command{
		Name:      "publish",
		Usage:     "upload cached artifacts to S3",
		UsageText: `lciochecks publish --bucket <bucket> [options]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "bucket",
				Aliases: []string{"b"},
				Usage:   "destination bucket",
				Sources: cli.NewValueSourceChain(
					append([]cli.ValueSource{cli.EnvVar("LCIOCHECKS_BUCKET")}, sources("publish", "bucket", src).Chain...)...,
				),
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
			&cli.StringFlag{
				Name:    "prefix",
				Aliases: []string{"p"},
				Usage:   "key prefix of the uploaded objects",
				Sources: sources("publish", "prefix", src),
			},
			&cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region. Overrides the profile",
				Sources: sources("publish", "region", src),
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "AWS shared config profile",
				Sources: cli.NewValueSourceChain(
					append([]cli.ValueSource{cli.EnvVar("AWS_PROFILE")}, sources("publish", "profile", src).Chain...)...,
				),
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "S3 compatible endpoint URL",
				Sources: sources("publish", "endpoint", src),
			},
			tldrFlag,
		}, NewGlobalFlags("publish", src)...),
		Action: PublishCommandAction,
	}
}
