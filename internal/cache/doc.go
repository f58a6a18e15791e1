// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache memoizes expensive plot and table producing functions. Their
// outputs are persisted as PNG (plus an alternate image format) or CSV files
// under a cache directory, keyed by human-chosen names, and loaded back on
// later calls instead of being recomputed.
package cache
