/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hypermodeinc/cypherhttp/client"
	"github.com/hypermodeinc/cypherhttp/cypherc/cmd/common"
)

const (
	promptFirst = "cypher> "
	promptMore  = "     -> "
)

const helpText = `Statements end with ';' and may span several lines.
Commands:
  :param <name> <value>  set a parameter; the value is parsed as JSON, else taken as a string
  :params                list the parameters
  :clear                 remove all parameters
  :help                  show this help
  :exit                  leave the shell
`

// session holds the state of one shell: the parameters and the statement being typed.
type session struct {
	c      *client.Client
	out    io.Writer
	format string

	params map[string]interface{}
	buf    strings.Builder
}

func newSession(c *client.Client, out io.Writer, format string) *session {
	return &session{
		c:      c,
		out:    out,
		format: format,
		params: make(map[string]interface{}),
	}
}

func (s *session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *session) pending() int {
	return s.buf.Len()
}

func (s *session) reset() {
	s.buf.Reset()
}

func (s *session) prompt() string {
	if s.pending() > 0 {
		return promptMore
	}
	return promptFirst
}

// handle processes one line of input. It returns true once the shell should exit.
func (s *session) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.pending() == 0 && strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}
	if trimmed == "" {
		return false
	}
	if s.pending() > 0 {
		s.buf.WriteByte('\n')
	}
	s.buf.WriteString(line)
	if !strings.HasSuffix(trimmed, ";") {
		return false
	}

	text := strings.TrimSuffix(strings.TrimSpace(s.buf.String()), ";")
	s.reset()
	if strings.TrimSpace(text) == "" {
		return false
	}
	s.run(ctx, text)
	return false
}

func (s *session) run(ctx context.Context, text string) {
	var params map[string]interface{}
	if len(s.params) > 0 {
		params = make(map[string]interface{}, len(s.params))
		for k, v := range s.params {
			params[k] = v
		}
	}

	start := time.Now()
	results, err := s.c.Query(ctx, []client.Statement{client.NewStatement(text, params)})
	if err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	if err := common.PrintResults(s.out, results, s.format); err != nil {
		s.printf("Error: %v\n", err)
		return
	}
	s.printf("(%v)\n", time.Since(start).Round(time.Millisecond))
}

func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":exit", ":quit":
		return true
	case ":help":
		s.printf("%s", helpText)
	case ":params":
		if len(s.params) == 0 {
			s.printf("(no parameters)\n")
			break
		}
		names := make([]string, 0, len(s.params))
		for name := range s.params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b, err := json.Marshal(s.params[name])
			if err != nil {
				b = []byte(fmt.Sprint(s.params[name]))
			}
			s.printf("%s = %s\n", name, b)
		}
	case ":param":
		if len(fields) < 3 {
			s.printf("Usage: :param <name> <value>\n")
			break
		}
		// The value is everything after the name, spaces included.
		rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		raw := strings.TrimSpace(strings.TrimPrefix(rest, fields[1]))
		s.params[fields[1]] = common.ParseValue(raw)
	case ":clear":
		s.params = make(map[string]interface{})
	default:
		s.printf("Unknown command %s. Type :help for help.\n", fields[0])
	}
	return false
}
