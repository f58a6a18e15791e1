// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &CustomHandler{Writer: &buf}

	err := h.HandleLog(&log.Entry{
		Level:   log.InfoLevel,
		Message: "Figure saved to x.png.",
	})
	require.NoError(t, err)
	assert.Equal(t, "[INFO] Figure saved to x.png.\n", buf.String())

	buf.Reset()
	err = h.HandleLog(&log.Entry{
		Level:   log.WarnLevel,
		Message: "hello",
		Fields:  log.Fields{"b": 2, "a": "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "[WARN:a=x,b=2] hello\n", buf.String())
}

func TestEnableFile(t *testing.T) {
	InitLogger()
	dir := t.TempDir()

	closeFn, err := EnableFile(dir, false)
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	_, err = os.Stat(filepath.Join(dir, LogFileName))
	assert.True(t, os.IsNotExist(err))

	closeFn, err = EnableFile(dir, true)
	require.NoError(t, err)
	log.Info("a line for the file")
	require.NoError(t, closeFn())

	raw, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[INFO] Logging with level INFO.")
	assert.Contains(t, string(raw), "[INFO] a line for the file")

	InitLogger()
}
