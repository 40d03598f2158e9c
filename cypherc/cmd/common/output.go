/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package common

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/hypermodeinc/cypherhttp/client"
)

// PrintResults writes results to w in the given format, "table" or "json".
func PrintResults(w io.Writer, results []client.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "while writing results")
	case "table", "":
		for i, res := range results {
			if len(results) > 1 {
				fmt.Fprintf(w, "Statement %d:\n", i+1)
			}
			printTable(w, res)
		}
		return nil
	default:
		return errors.Errorf("unknown format %q, want one of [table, json]", format)
	}
}

func printTable(w io.Writer, res client.Result) {
	if len(res.Records) == 0 {
		fmt.Fprintln(w, "(no results)")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(res.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	rows := make([][]string, 0, len(res.Records))
	for _, rec := range res.Records {
		row := make([]string, 0, len(res.Columns))
		for _, col := range res.Columns {
			row = append(row, FormatValue(rec[col]))
		}
		rows = append(rows, row)
	}
	table.AppendBulk(rows)
	table.Render()

	unit := "rows"
	if len(res.Records) == 1 {
		unit = "row"
	}
	fmt.Fprintf(w, "%s %s\n", humanize.Comma(int64(len(res.Records))), unit)
}

// FormatValue renders a result value for a table cell. Nodes, maps and lists are shown
// as JSON, null as "null".
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return s
	}
}

// ParseValue interprets a parameter value given on the command line. Anything that is a
// single JSON value is used as such; everything else is taken as a string.
func ParseValue(raw string) interface{} {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

// ParseParams turns name=value pairs into statement parameters. It returns nil for no pairs.
func ParseParams(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]interface{}, len(pairs))
	for _, kv := range pairs {
		name, raw, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Errorf("invalid parameter %q, want name=value", kv)
		}
		params[name] = ParseValue(raw)
	}
	return params, nil
}
