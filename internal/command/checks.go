// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/lciochecks/internal/cache"
	"github.com/staranto/lciochecks/internal/mc"
	"github.com/staranto/lciochecks/internal/meta"
	"github.com/staranto/lciochecks/internal/rp"
	"github.com/staranto/lciochecks/internal/sample"
)

func countPerGeneratorStatus(_ context.Context, cmd *cli.Command, s *cache.Store, events []sample.Event) ([]cache.Artifact, error) {
	return mc.CountPerGeneratorStatus(s, events, CacheOptions(cmd))
}

func vertexZPerGeneratorStatus(_ context.Context, cmd *cli.Command, s *cache.Store, events []sample.Event) ([]cache.Artifact, error) {
	return mc.VertexZPerGeneratorStatus(s, events, CacheOptions(cmd))
}

func simulationInfo(_ context.Context, cmd *cli.Command, s *cache.Store, events []sample.Event) ([]cache.Artifact, error) {
	return mc.PlotSimulationInfo(s, events, CacheOptions(cmd))
}

func higgsLike(_ context.Context, cmd *cli.Command, s *cache.Store, events []sample.Event) ([]cache.Artifact, error) {
	h, err := rp.NewHiggsLike(events, cmd.Float("sqrt-s"))
	if err != nil {
		return nil, err
	}
	if err := h.ApplyChi2(rp.DefaultChi2); err != nil {
		return nil, err
	}
	log.Infof("%d of %d events have a lepton pair.", h.CountWithPair(), len(events))

	if cmd.Bool("pairs") {
		for i, b := range h.Best {
			if b < 0 {
				continue
			}
			p := h.Pairs[i][b]
			e := h.Events[i]
			fmt.Fprintf(cmd.Root().Writer, "%d/%d: m=%.3f recoil=%.3f chi2=%.3f\n", e.Run, e.Number, p.Mass, p.Recoil, p.Chi2)
		}
	}

	return rp.PlotRecoil(s, h, CacheOptions(cmd))
}

// McGenCommandBuilder constructs the cli.Command for "mc-gen".
func McGenCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CheckCommandBuilder{
		Name:      "mc-gen",
		Usage:     "MC generator status checks",
		UsageText: `lciochecks mc-gen [files...] [options]`,
		Checks:    []CheckFunc{countPerGeneratorStatus, vertexZPerGeneratorStatus},
		Meta:      meta,
	}).Build()
}

// McSimCommandBuilder constructs the cli.Command for "mc-sim".
func McSimCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CheckCommandBuilder{
		Name:      "mc-sim",
		Usage:     "MC simulator status checks",
		UsageText: `lciochecks mc-sim [files...] [options]`,
		Checks:    []CheckFunc{simulationInfo},
		Meta:      meta,
	}).Build()
}

// HiggsCommandBuilder constructs the cli.Command for "higgs".
func HiggsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CheckCommandBuilder{
		Name:      "higgs",
		Usage:     "Higgs-like lepton pair and recoil mass checks",
		UsageText: `lciochecks higgs [files...] [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "pairs",
				Usage: "print the best pair of every event",
				Value: false,
			},
		},
		Checks: []CheckFunc{higgsLike},
		Meta:   meta,
	}).Build()
}
