/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/cypherhttp/client"
	"github.com/hypermodeinc/cypherhttp/testutil"
)

func newTestSession(t *testing.T, body string) (*session, *bytes.Buffer, *testutil.CommitServer) {
	srv := testutil.NewCommitServer(t, body)
	var out bytes.Buffer
	return newSession(client.New(srv.URL, "neo4j", "pass"), &out, "table"), &out, srv
}

func TestSessionMultiLineStatement(t *testing.T) {
	s, out, srv := newTestSession(t,
		`{"results": [{"columns": ["n"], "data": [{"row": [1]}]}], "errors": []}`)
	ctx := context.Background()

	require.False(t, s.handle(ctx, "MATCH (n)"))
	require.Equal(t, promptMore, s.prompt())
	require.Empty(t, srv.Requests())

	require.False(t, s.handle(ctx, "RETURN count(n) AS n;"))
	require.Equal(t, promptFirst, s.prompt())

	req, ok := srv.Last()
	require.True(t, ok)
	stmt := req.Body["statements"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, "MATCH (n)\nRETURN count(n) AS n", stmt["statement"])
	require.NotContains(t, stmt, "parameters")
	require.Contains(t, out.String(), "1 row")
}

func TestSessionParams(t *testing.T) {
	s, out, srv := newTestSession(t, `{"results": [{"columns": [], "data": []}], "errors": []}`)
	ctx := context.Background()

	require.False(t, s.handle(ctx, ":param age 30"))
	require.False(t, s.handle(ctx, ":param name Alice Smith"))
	require.False(t, s.handle(ctx, `:param tags ["a", "b"]`))
	require.False(t, s.handle(ctx, ":params"))
	require.Contains(t, out.String(), "age = 30")
	require.Contains(t, out.String(), `name = "Alice Smith"`)

	require.False(t, s.handle(ctx, "RETURN $age, $name, $tags;"))
	req, _ := srv.Last()
	var body struct {
		Statements []struct {
			Parameters map[string]interface{} `json:"parameters"`
		} `json:"statements"`
	}
	require.NoError(t, json.Unmarshal(req.Raw, &body))
	require.Equal(t, map[string]interface{}{
		"age":  float64(30),
		"name": "Alice Smith",
		"tags": []interface{}{"a", "b"},
	}, body.Statements[0].Parameters)
	require.Contains(t, out.String(), "(no results)")

	require.False(t, s.handle(ctx, ":clear"))
	out.Reset()
	require.False(t, s.handle(ctx, ":params"))
	require.Contains(t, out.String(), "(no parameters)")
}

func TestSessionCommands(t *testing.T) {
	s, out, srv := newTestSession(t, `{}`)
	ctx := context.Background()

	require.False(t, s.handle(ctx, ":help"))
	require.Contains(t, out.String(), ":param <name> <value>")
	require.False(t, s.handle(ctx, ":nope"))
	require.Contains(t, out.String(), "Unknown command :nope")
	require.False(t, s.handle(ctx, ":param onlyname"))
	require.Contains(t, out.String(), "Usage: :param")
	require.False(t, s.handle(ctx, "   "))
	require.False(t, s.handle(ctx, ";"))
	require.Empty(t, srv.Requests())

	require.True(t, s.handle(ctx, ":exit"))
	require.True(t, s.handle(ctx, ":quit"))
}

func TestSessionReportsErrors(t *testing.T) {
	s, out, srv := newTestSession(t, "")
	srv.Reply(http.StatusOK, `{"errors": [{"code": "X", "message": "bad"}]}`)

	require.False(t, s.handle(context.Background(), "RETURN;"))
	require.Contains(t, out.String(), "Error: ")
	require.Contains(t, out.String(), "X: bad")
	require.Equal(t, promptFirst, s.prompt())
}
