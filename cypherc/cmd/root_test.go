/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/cypherhttp/cypherc/cmd/query"
)

func TestSubcommands(t *testing.T) {
	var names []string
	for _, c := range RootCmd.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"query", "shell", "version"})

	for _, sc := range subcommands {
		require.NotNil(t, sc.Conf, sc.Cmd.Name())
		require.NotEmpty(t, sc.EnvPrefix, sc.Cmd.Name())
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"version"})
	defer RootCmd.SetArgs(nil)

	require.NoError(t, RootCmd.Execute())
	require.Contains(t, out.String(), "cypherc version")
}

func TestQueryDefaults(t *testing.T) {
	require.Equal(t, "http://localhost:7474", query.Query.Conf.GetString("service_root"))
	require.Equal(t, "neo4j", query.Query.Conf.GetString("user"))
	require.Equal(t, "table", query.Query.Conf.GetString("format"))
}

func TestQueryEnv(t *testing.T) {
	t.Setenv("CYPHERC_QUERY_USER", "alice")
	require.Equal(t, "alice", query.Query.Conf.GetString("user"))
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("service_root: http://db:7474\n"), 0600))

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"version", "--config", cfg})
	defer RootCmd.SetArgs(nil)

	require.NoError(t, RootCmd.Execute())
	require.Equal(t, "http://db:7474", query.Query.Conf.GetString("service_root"))
}
