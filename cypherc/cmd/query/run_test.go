/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package query

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/cypherhttp/client"
	"github.com/hypermodeinc/cypherhttp/testutil"
)

const peopleResult = `{
	"results": [{"columns": ["name", "age"], "data": [{"row": ["Alice", 42]}]}],
	"errors": []
}`

func testConf(root string) *viper.Viper {
	conf := viper.New()
	conf.Set("service_root", root)
	conf.Set("user", "neo4j")
	conf.Set("password", "pass")
	conf.Set("format", "table")
	return conf
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRunStatements(t *testing.T) {
	srv := testutil.NewCommitServer(t, peopleResult)
	conf := testConf(srv.URL)
	conf.Set("statement", []string{"MATCH (p:Person) WHERE p.age > $age RETURN p.name AS name, p.age AS age"})
	conf.Set("param", []string{"age=30"})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), conf, &out))
	require.Contains(t, out.String(), "name")
	require.Contains(t, out.String(), "Alice")
	require.Contains(t, out.String(), "42")
	require.Contains(t, out.String(), "1 row")

	req, ok := srv.Last()
	require.True(t, ok)
	require.Equal(t, "Bearer "+client.AuthToken("neo4j", "pass"), req.Header.Get("Authorization"))
	stmts := req.Body["statements"].([]interface{})
	require.Len(t, stmts, 1)
	require.Equal(t, map[string]interface{}{"age": float64(30)},
		stmts[0].(map[string]interface{})["parameters"])
}

func TestRunJSON(t *testing.T) {
	srv := testutil.NewCommitServer(t, peopleResult)
	conf := testConf(srv.URL)
	conf.Set("format", "json")
	conf.Set("statement", []string{"RETURN 'Alice' AS name, 42 AS age"})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), conf, &out))
	var got [][]map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, [][]map[string]interface{}{{{"name": "Alice", "age": float64(42)}}}, got)
}

func TestRunFiles(t *testing.T) {
	srv := testutil.NewCommitServer(t, peopleResult)
	first := writeFile(t, "people.yaml", `
statements:
  - statement: MATCH (p:Person) WHERE p.age > $age RETURN p.name AS name, p.age AS age
    parameters:
      age: 30
  - statement: RETURN 1
`)
	second := writeFile(t, "more.yaml", `
statements:
  - statement: MATCH (p:Person) RETURN p.name AS name, p.age AS age
`)
	conf := testConf(srv.URL)
	conf.Set("file", []string{first, second})
	conf.Set("conc", 2)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), conf, &out))
	require.Contains(t, out.String(), "# "+first)
	require.Contains(t, out.String(), "# "+second)
	require.Less(t, bytes.Index(out.Bytes(), []byte(first)), bytes.Index(out.Bytes(), []byte(second)))

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	var counts []int
	for _, r := range reqs {
		counts = append(counts, len(r.Body["statements"].([]interface{})))
	}
	require.ElementsMatch(t, []int{1, 2}, counts)
}

func TestRunServerError(t *testing.T) {
	srv := testutil.NewCommitServer(t, "")
	srv.Reply(http.StatusOK,
		`{"results": [], "errors": [{"code": "Neo.ClientError.Statement.SyntaxError", "message": "Invalid input"}]}`)
	conf := testConf(srv.URL)
	conf.Set("statement", []string{"RETURN"})

	var out bytes.Buffer
	err := run(context.Background(), conf, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 1 transactions failed")
	require.Contains(t, out.String(), "SyntaxError")
}

func TestCollectErrors(t *testing.T) {
	conf := testConf("http://localhost:7474")
	_, err := collect(conf)
	require.Error(t, err)

	conf.Set("param", []string{"a=1"})
	_, err = collect(conf)
	require.Error(t, err)

	conf.Set("statement", []string{"RETURN $a"})
	conf.Set("param", []string{"=1"})
	_, err = collect(conf)
	require.Error(t, err)

	conf = testConf("http://localhost:7474")
	conf.Set("file", []string{writeFile(t, "empty.yaml", "statements: []\n")})
	_, err = collect(conf)
	require.Error(t, err)

	conf.Set("file", []string{writeFile(t, "blank.yaml", "statements:\n  - statement: ' '\n")})
	_, err = collect(conf)
	require.Error(t, err)

	conf.Set("file", []string{filepath.Join(t.TempDir(), "missing.yaml")})
	_, err = collect(conf)
	require.Error(t, err)
}

func TestRunBadFormat(t *testing.T) {
	conf := testConf("http://localhost:7474")
	conf.Set("format", "xml")
	conf.Set("statement", []string{"RETURN 1"})
	require.Error(t, run(context.Background(), conf, &bytes.Buffer{}))
}
