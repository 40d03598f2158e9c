/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package client

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opencensus.io/stats"
	"go.opencensus.io/trace"

	"github.com/hypermodeinc/cypherhttp/x"
)

// CommitPath is the transaction commit endpoint, relative to the service root.
const CommitPath = "/db/data/transaction/commit"

// Config holds everything a Client needs. It is copied by NewWithConfig.
type Config struct {
	// ServiceRoot is the base URL of the server, e.g. http://localhost:7474.
	ServiceRoot string
	Username    string
	Password    string

	// HTTPClient sends the requests. http.DefaultClient is used when nil.
	HTTPClient *http.Client
	// Permissive skips the check that every row has one value per column.
	Permissive bool
	// QueryLog receives one entry per Query call when set.
	QueryLog *x.Logger
}

// Client sends statements to one server. It holds no mutable state and can be used from
// multiple goroutines.
type Client struct {
	commitURL  string
	authHeader string
	hc         *http.Client
	permissive bool
	qlog       *x.Logger
}

// New returns a Client for the server at serviceRoot that authenticates as username.
// serviceRoot is not validated; a bad one makes every Query fail with a TransportError.
func New(serviceRoot, username, password string) *Client {
	return newClient(Config{
		ServiceRoot: serviceRoot,
		Username:    username,
		Password:    password,
	})
}

// NewWithConfig returns a Client for conf, failing if conf.ServiceRoot is not an absolute URL.
func NewWithConfig(conf Config) (*Client, error) {
	if conf.ServiceRoot == "" {
		return nil, errors.New("service root must not be empty")
	}
	u, err := url.Parse(conf.ServiceRoot)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid service root %q", conf.ServiceRoot)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("service root %q must be an absolute URL", conf.ServiceRoot)
	}
	return newClient(conf), nil
}

func newClient(conf Config) *Client {
	hc := conf.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		commitURL:  strings.TrimSuffix(conf.ServiceRoot, "/") + CommitPath,
		authHeader: "Bearer " + AuthToken(conf.Username, conf.Password),
		hc:         hc,
		permissive: conf.Permissive,
		qlog:       conf.QueryLog,
	}
}

// AuthToken returns the base64 encoding of "username:password".
func AuthToken(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// AuthHeader returns the Authorization header value sent with every request.
func (c *Client) AuthHeader() string {
	return c.authHeader
}

// CommitURL returns the URL requests are posted to.
func (c *Client) CommitURL() string {
	return c.commitURL
}

// Query submits statements in a single commit request and returns one Result per
// statement, in order. It fails with a *TransportError, *QueryError, *ProtocolError or
// *ShapeError, and never returns partial results.
func (c *Client) Query(ctx context.Context, statements []Statement) ([]Result, error) {
	ctx = x.WithMethod(ctx, "Query")
	ctx, span := trace.StartSpan(ctx, "client.Query")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("statements", int64(len(statements))))

	id := uuid.New().String()
	start := time.Now()
	glog.V(2).Infof("[%s] Sending %d statements to %s", id, len(statements), c.commitURL)

	results, err := c.query(ctx, statements)

	mctx := x.WithStatus(ctx, err)
	stats.Record(mctx,
		x.NumQueries.M(1),
		x.NumStatements.M(int64(len(statements))),
		x.LatencyMs.M(x.SinceMs(start)))
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
		glog.V(1).Infof("[%s] Query failed: %v", id, err)
		c.logQuery(id, statements, start, nil, err)
		return nil, err
	}
	stats.Record(mctx, x.NumRecords.M(countRecords(results)))
	c.logQuery(id, statements, start, results, nil)
	return results, nil
}

func (c *Client) query(ctx context.Context, statements []Statement) ([]Result, error) {
	body, err := encodeRequest(statements)
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "while encoding statements")}
	}
	respBody, err := c.doPost(ctx, body)
	if err != nil {
		return nil, err
	}
	raw, err := decodeResponse(respBody, statements)
	if err != nil {
		return nil, err
	}
	return MapResults(raw, c.permissive)
}

func (c *Client) logQuery(id string, statements []Statement, start time.Time,
	results []Result, err error) {
	if c.qlog == nil {
		return
	}
	texts := make([]string, 0, len(statements))
	for _, s := range statements {
		texts = append(texts, s.Statement)
	}
	args := []interface{}{
		"id", id,
		"endpoint", c.commitURL,
		"statements", texts,
		"latency_ms", x.SinceMs(start),
	}
	if err != nil {
		c.qlog.QueryE("query failed", append(args, "error", err.Error())...)
		return
	}
	c.qlog.QueryI("query committed", append(args, "records", countRecords(results))...)
}

// Future is the pending outcome of a QueryAsync call.
type Future struct {
	done    chan struct{}
	results []Result
	err     error
}

// QueryAsync runs Query in its own goroutine. Cancelling ctx aborts the request.
func (c *Client) QueryAsync(ctx context.Context, statements []Statement) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.results, f.err = c.Query(ctx, statements)
	}()
	return f
}

// Done is closed once the query has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the query has finished and returns what Query returned.
func (f *Future) Wait() ([]Result, error) {
	<-f.done
	return f.results, f.err
}
