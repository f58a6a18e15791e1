// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package mc holds the checks on the Monte Carlo truth particles: their
// multiplicity and vertex per generator status, and the simulator status
// flags.
package mc
