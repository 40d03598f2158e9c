/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := InitLogger(dir, "query.log")
	require.NoError(t, err)

	l.QueryI("query committed", "id", "abc", "records", 3)
	l.QueryE("query failed", "id", "def", "error", "boom", "dangling")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(filepath.Join(dir, "query.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "info", first["level"])
	require.Equal(t, "abc", first["id"])
	require.Equal(t, float64(3), first["records"])
	require.Equal(t, "error", second["level"])
	require.Equal(t, "boom", second["error"])
	require.NotContains(t, second, "dangling")
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.QueryI("ignored")
	l.QueryE("ignored")
	l.Sync()
	require.NoError(t, l.Close())
}
