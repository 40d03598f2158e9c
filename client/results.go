/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package client

import (
	"encoding/json"
)

// RawRow is one entry of a result's data list.
type RawRow struct {
	Row []interface{} `json:"row"`
}

// RawResult is the columnar result the server returns for one statement. Row values are
// positionally aligned with Columns.
type RawResult struct {
	Columns []string `json:"columns"`
	Data    []RawRow `json:"data"`
}

// Record maps a column name to the value of that column in one row.
type Record map[string]interface{}

// Result holds the records produced by one statement, in row order. Columns keeps the
// order in which the server listed them, since Record does not.
type Result struct {
	Columns []string
	Records []Record
}

// MarshalJSON encodes r as the list of its records.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Records)
}

// MapResults zips every row of every raw result with that result's columns. The output
// has one Result per input, in the same order, and one Record per row.
//
// A row whose length differs from the number of columns yields a *ShapeError, unless
// permissive is set: then extra values are dropped and missing ones are nil. Duplicate
// column names keep the value of the last occurrence.
func MapResults(raw []RawResult, permissive bool) ([]Result, error) {
	out := make([]Result, 0, len(raw))
	for i, rr := range raw {
		res := Result{
			Columns: rr.Columns,
			Records: make([]Record, 0, len(rr.Data)),
		}
		for j, data := range rr.Data {
			if !permissive && len(data.Row) != len(rr.Columns) {
				return nil, &ShapeError{
					Statement: i,
					Row:       j,
					Columns:   len(rr.Columns),
					Values:    len(data.Row),
				}
			}
			rec := make(Record, len(rr.Columns))
			for k, col := range rr.Columns {
				var v interface{}
				if k < len(data.Row) {
					v = data.Row[k]
				}
				rec[col] = v
			}
			res.Records = append(res.Records, rec)
		}
		out = append(out, res)
	}
	return out, nil
}

func countRecords(results []Result) int64 {
	var n int64
	for _, r := range results {
		n += int64(len(r.Records))
	}
	return n
}
