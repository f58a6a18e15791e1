// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for lciochecks. It wires flags,
// validators and actions for the check, notebook, lint, cache and publish
// subcommands.
package command
