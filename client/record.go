/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package client

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

func (r Record) value(col string) (interface{}, error) {
	v, ok := r[col]
	if !ok {
		return nil, errors.Errorf("column %q not present in record", col)
	}
	return v, nil
}

// GetString returns the value of col converted to a string.
func (r Record) GetString(col string) (string, error) {
	v, err := r.value(col)
	if err != nil {
		return "", err
	}
	s, err := cast.ToStringE(v)
	return s, errors.Wrapf(err, "column %q", col)
}

// GetInt64 returns the value of col converted to an int64.
func (r Record) GetInt64(col string) (int64, error) {
	v, err := r.value(col)
	if err != nil {
		return 0, err
	}
	i, err := cast.ToInt64E(v)
	return i, errors.Wrapf(err, "column %q", col)
}

// GetFloat64 returns the value of col converted to a float64.
func (r Record) GetFloat64(col string) (float64, error) {
	v, err := r.value(col)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(v)
	return f, errors.Wrapf(err, "column %q", col)
}

// GetBool returns the value of col converted to a bool.
func (r Record) GetBool(col string) (bool, error) {
	v, err := r.value(col)
	if err != nil {
		return false, err
	}
	b, err := cast.ToBoolE(v)
	return b, errors.Wrapf(err, "column %q", col)
}

// Unmarshal decodes the records of r into v, which must be a pointer to a slice. Fields
// are matched to column names the way encoding/json matches object keys.
func (r Result) Unmarshal(v interface{}) error {
	b, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "while encoding records")
	}
	return errors.Wrap(json.Unmarshal(b, v), "while decoding records")
}
