/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordAccessors(t *testing.T) {
	rec := Record{
		"name":  "Alice",
		"age":   json.Number("42"),
		"score": json.Number("3.5"),
		"admin": true,
		"none":  nil,
	}

	name, err := rec.GetString("name")
	require.NoError(t, err)
	require.Equal(t, "Alice", name)

	age, err := rec.GetInt64("age")
	require.NoError(t, err)
	require.Equal(t, int64(42), age)

	score, err := rec.GetFloat64("score")
	require.NoError(t, err)
	require.Equal(t, 3.5, score)

	admin, err := rec.GetBool("admin")
	require.NoError(t, err)
	require.True(t, admin)

	none, err := rec.GetString("none")
	require.NoError(t, err)
	require.Equal(t, "", none)
}

func TestRecordAccessorErrors(t *testing.T) {
	rec := Record{"name": "Alice"}

	_, err := rec.GetString("missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), `column "missing" not present`)

	_, err = rec.GetInt64("name")
	require.Error(t, err)
	require.Contains(t, err.Error(), `column "name"`)
}

func TestResultUnmarshal(t *testing.T) {
	res := Result{
		Columns: []string{"name", "age"},
		Records: []Record{
			{"name": "Alice", "age": json.Number("42")},
			{"name": "Bob", "age": json.Number("7")},
		},
	}
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	var people []person
	require.NoError(t, res.Unmarshal(&people))
	require.Equal(t, []person{{"Alice", 42}, {"Bob", 7}}, people)

	var wrong []int
	require.Error(t, res.Unmarshal(&wrong))
}
