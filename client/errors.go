/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package client

import (
	"fmt"
	"strings"
)

// maxBodyInError caps how much of a response body is quoted in error messages.
const maxBodyInError = 256

// ServerError is one entry of the errors list returned by the server.
type ServerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ServerError) Error() string {
	return e.Code + ": " + e.Message
}

// TransportError is returned when the request could not be built or sent, or when the
// server answered with a non-2xx status. StatusCode and Body are only set in the latter case.
type TransportError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// QueryError is returned when the server reports one or more errors for the submitted
// statements. Nothing was committed.
type QueryError struct {
	Errors     []ServerError
	Statements []Statement
}

func (e *QueryError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, se := range e.Errors {
		msgs = append(msgs, se.Error())
	}
	return fmt.Sprintf("server reported %d error(s) for %d statement(s): %s",
		len(e.Errors), len(e.Statements), strings.Join(msgs, "; "))
}

// ProtocolError is returned when the response body is not JSON, or carries neither
// results nor errors.
type ProtocolError struct {
	Body []byte
	Err  error
}

func (e *ProtocolError) Error() string {
	body := string(e.Body)
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError] + "..."
	}
	return fmt.Sprintf("unexpected response: %v: %q", e.Err, body)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ShapeError is returned when a row's value count differs from its result's column count.
// Statement and Row are zero-based indexes.
type ShapeError struct {
	Statement int
	Row       int
	Columns   int
	Values    int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("result of statement %d: row %d has %d values for %d columns",
		e.Statement, e.Row, e.Values, e.Columns)
}
