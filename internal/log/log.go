// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/multi"
)

// LogFileName is the file appended to in verbose mode.
const LogFileName = "lcio_checks.log"

// InitLogger sets up Apex with a custom handler and a log level from the
// LCIOCHECKS_LOG env variable.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("LCIOCHECKS_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&CustomHandler{Writer: os.Stderr})
	log.SetLevelFromString(level)
}

// EnableFile raises the level to at least INFO and tees every entry into
// dir/lcio_checks.log. It is a no-op unless verbose is set. The returned close
// func must be called once logging is done.
func EnableFile(dir string, verbose bool) (func() error, error) {
	noop := func() error { return nil }
	if !verbose {
		return noop, nil
	}

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:mnd
	if err != nil {
		return noop, fmt.Errorf("failed to open log file: %w", err)
	}

	if l, ok := log.Log.(*log.Logger); ok && l.Level > log.InfoLevel {
		log.SetLevel(log.InfoLevel)
	}

	log.SetHandler(multi.New(
		&CustomHandler{Writer: os.Stderr},
		&CustomHandler{Writer: f, Stamp: true},
	))

	log.Infof("Logging with level INFO. Appended to %s at %s.",
		path, time.Now().Format("2006-01-02-15:04:05"))

	return f.Close, nil
}

// CustomHandler formats log messages as "[LEVEL:fields] message" and writes
// them to Writer. Stamp prefixes each line with a timestamp.
type CustomHandler struct {
	Writer io.Writer
	Stamp  bool
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	w := h.Writer
	if w == nil {
		w = os.Stderr
	}

	level := strings.ToUpper(e.Level.String())

	names := e.Fields.Names()
	sort.Strings(names)
	var fields []string
	for _, n := range names {
		fields = append(fields, fmt.Sprintf("%s=%v", n, e.Fields.Get(n)))
	}

	prefix := level
	if len(fields) > 0 {
		prefix += ":" + strings.Join(fields, ",")
	}

	if h.Stamp {
		_, err := fmt.Fprintf(w, "%s [%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), prefix, e.Message)
		return err
	}
	_, err := fmt.Fprintf(w, "[%s] %s\n", prefix, e.Message)
	return err
}
