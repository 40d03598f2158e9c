/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// CommitRequest is a request received by a CommitServer.
type CommitRequest struct {
	Method string
	Path   string
	Header http.Header
	// Raw is the body as sent, Body the same decoded into a generic map.
	Raw  []byte
	Body map[string]interface{}
}

// CommitServer emulates the transaction commit endpoint. It answers every request with
// Status and Body, and remembers the requests it received.
type CommitServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     []byte
	requests []CommitRequest
}

// NewCommitServer starts a CommitServer replying 200 with body. It is closed when t ends.
func NewCommitServer(t testing.TB, body string) *CommitServer {
	cs := &CommitServer{status: http.StatusOK, body: []byte(body)}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.serve))
	t.Cleanup(cs.Close)
	return cs
}

// Reply changes the status and body returned for later requests.
func (cs *CommitServer) Reply(status int, body string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.status = status
	cs.body = []byte(body)
}

// Requests returns the requests received so far.
func (cs *CommitServer) Requests() []CommitRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]CommitRequest(nil), cs.requests...)
}

// Last returns the most recent request. ok is false if none arrived yet.
func (cs *CommitServer) Last() (req CommitRequest, ok bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.requests) == 0 {
		return CommitRequest{}, false
	}
	return cs.requests[len(cs.requests)-1], true
}

func (cs *CommitServer) serve(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req := CommitRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Raw:    raw,
	}
	// Bodies that aren't JSON objects are kept in Raw only.
	_ = json.Unmarshal(raw, &req.Body)

	cs.mu.Lock()
	cs.requests = append(cs.requests, req)
	status, body := cs.status, cs.body
	cs.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
