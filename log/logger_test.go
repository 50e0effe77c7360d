// Copyright 2017 Microsoft. All rights reserved.
// MIT License

package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vrfctl.log")

	logger, cleanup, err := New(&Config{Level: "warn", OutputPaths: path})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("Namespace operation failed", zap.String("ns", "VRF_5"))
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "Namespace operation failed", entry["msg"])
	require.Equal(t, "VRF_5", entry["ns"])
	require.Contains(t, entry, "time")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(&Config{Level: "loud"})
	require.Error(t, err)
}

func TestSplitPaths(t *testing.T) {
	require.Equal(t, []string{DefaultOutputPath}, splitPaths(""))
	require.Equal(t, []string{"stdout", "/tmp/a.log"}, splitPaths("stdout,/tmp/a.log"))
}

func TestNewLogfmt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vrfctl.log")

	logger, cleanup, err := New(&Config{Level: "debug", Format: FormatLogfmt, OutputPaths: path})
	require.NoError(t, err)
	logger.Debug("Netlink socket created", zap.String("ns", "swns"))
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "level=debug")
	require.Contains(t, string(b), "ns=swns")

	_, _, err = New(&Config{Format: "xml"})
	require.Error(t, err)
}
