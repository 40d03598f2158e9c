/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Statement is a query together with its named parameters.
type Statement struct {
	Statement  string                 `json:"statement" yaml:"statement"`
	Parameters map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// NewStatement returns a Statement for text. params may be nil.
func NewStatement(text string, params map[string]interface{}) Statement {
	return Statement{Statement: text, Parameters: params}
}

type transactionRequest struct {
	Statements []statementRequest `json:"statements"`
}

// statementRequest asks for no row or graph content formats and no stats, which leaves
// the server's default row layout in results[].data[].row.
type statementRequest struct {
	Statement          string                 `json:"statement"`
	Parameters         map[string]interface{} `json:"parameters,omitempty"`
	ResultDataContents []string               `json:"resultDataContents"`
	IncludeStats       bool                   `json:"includeStats"`
}

type transactionResponse struct {
	Results *[]RawResult  `json:"results"`
	Errors  []ServerError `json:"errors"`
}

func encodeRequest(statements []Statement) ([]byte, error) {
	req := transactionRequest{
		Statements: make([]statementRequest, 0, len(statements)),
	}
	for _, s := range statements {
		req.Statements = append(req.Statements, statementRequest{
			Statement:          s.Statement,
			Parameters:         s.Parameters,
			ResultDataContents: []string{},
			IncludeStats:       false,
		})
	}
	return json.Marshal(req)
}

// decodeResponse checks the server's errors before looking at its results, so a response
// carrying both is still a failure.
func decodeResponse(body []byte, statements []Statement) ([]RawResult, error) {
	var resp transactionResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, &ProtocolError{Body: body, Err: errors.Wrap(err, "while decoding response")}
	}
	if len(resp.Errors) > 0 {
		return nil, &QueryError{Errors: resp.Errors, Statements: statements}
	}
	if resp.Results == nil {
		return nil, &ProtocolError{Body: body, Err: errors.New("response has neither results nor errors")}
	}
	return *resp.Results, nil
}

// doPost sends body to the commit endpoint and returns the response body of a 2xx answer.
func (c *Client) doPost(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.commitURL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{
			Err: errors.Wrapf(err, "error building req for endpoint [%v]", c.commitURL)}
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "error performing HTTP request")}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			glog.Warningf("error closing response body: %v", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        errors.Wrapf(err, "error reading response body: url: [%v]", c.commitURL),
		}
	}
	glog.V(2).Infof("Received %s from %s, status: %d",
		humanize.Bytes(uint64(len(respBody))), c.commitURL, resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			Err:        errors.Errorf("got non 2xx resp: %s", resp.Status),
		}
	}
	return respBody, nil
}
