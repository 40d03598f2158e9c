/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package common

import (
	"fmt"
	"net/http"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hypermodeinc/cypherhttp/client"
	"github.com/hypermodeinc/cypherhttp/x"
)

// FillConnFlags stores flags common to the commands that talk to a server.
func FillConnFlags(flag *pflag.FlagSet) {
	flag.String("service_root", "http://localhost:7474",
		"Base URL of the server. Statements are posted to "+
			"<service_root>"+client.CommitPath+".")
	flag.String("user", "neo4j", "Username to authenticate as.")
	flag.String("password", "",
		"Password of the user. Prompted for when empty and stdin is a terminal.")
	flag.Bool("permissive", false,
		"Accept rows whose value count differs from the column count. Missing values are null.")
	flag.String("query_log", "",
		"Directory to write a JSON line per query to. Disabled when empty.")
	flag.String("metrics", "",
		"Address to serve Prometheus metrics on at /debug/prometheus_metrics, e.g. :9090.")
	flag.String("format", "table", "Output format, one of [table, json].")
}

// NewClient builds a client from the flags added by FillConnFlags. The returned func
// releases what the client holds and must be called once it is no longer used.
func NewClient(conf *viper.Viper) (*client.Client, func(), error) {
	password, err := readPassword(conf)
	if err != nil {
		return nil, nil, err
	}

	var qlog *x.Logger
	if dir := conf.GetString("query_log"); dir != "" {
		if qlog, err = x.InitLogger(dir, "cypherc_query.log"); err != nil {
			return nil, nil, err
		}
	}

	c, err := client.NewWithConfig(client.Config{
		ServiceRoot: conf.GetString("service_root"),
		Username:    conf.GetString("user"),
		Password:    password,
		Permissive:  conf.GetBool("permissive"),
		QueryLog:    qlog,
	})
	if err != nil {
		x.Ignore(qlog.Close())
		return nil, nil, err
	}

	var srv *http.Server
	if addr := conf.GetString("metrics"); addr != "" {
		if srv, err = serveMetrics(addr); err != nil {
			x.Ignore(qlog.Close())
			return nil, nil, err
		}
	}

	closer := func() {
		if err := qlog.Close(); err != nil {
			glog.Warningf("error closing query log: %v", err)
		}
		if srv != nil {
			x.Ignore(srv.Close())
		}
	}
	return c, closer, nil
}

func readPassword(conf *viper.Viper) (string, error) {
	password := conf.GetString("password")
	fd := int(os.Stdin.Fd())
	if password != "" || !term.IsTerminal(fd) {
		return password, nil
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", conf.GetString("user"))
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "while reading password")
	}
	return string(b), nil
}

func serveMetrics(addr string) (*http.Server, error) {
	pe, err := x.NewPrometheusExporter("cypherc")
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/debug/prometheus_metrics", pe)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Errorf("Metrics server on %s stopped: %v", addr, err)
		}
	}()
	glog.Infof("Serving metrics on %s/debug/prometheus_metrics", addr)
	return srv, nil
}
