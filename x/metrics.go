/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"context"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// Cumulative metrics.
	NumQueries = stats.Int64("num_queries_total",
		"Total number of transaction commit requests", stats.UnitDimensionless)
	NumStatements = stats.Int64("num_statements_total",
		"Total number of statements submitted", stats.UnitDimensionless)
	NumRecords = stats.Int64("num_records_total",
		"Total number of records mapped from results", stats.UnitDimensionless)
	LatencyMs = stats.Float64("latency",
		"Latency of the various methods", stats.UnitMilliseconds)

	// Tag keys here
	KeyStatus, _ = tag.NewKey("status")
	KeyMethod, _ = tag.NewKey("method")

	// Tag values here
	TagValueStatusOK    = "ok"
	TagValueStatusError = "error"

	defaultLatencyMsDistribution = view.Distribution(
		0, 0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, 10, 13, 16,
		20, 25, 30, 40, 50, 65, 80, 100, 130, 160, 200, 250, 300, 400, 500,
		650, 800, 1000, 2000, 5000, 10000, 20000, 50000, 100000)

	allTagKeys = []tag.Key{
		KeyStatus, KeyMethod,
	}

	allViews = []*view.View{
		{
			Name:        LatencyMs.Name(),
			Measure:     LatencyMs,
			Description: LatencyMs.Description(),
			Aggregation: defaultLatencyMsDistribution,
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumQueries.Name(),
			Measure:     NumQueries,
			Description: NumQueries.Description(),
			Aggregation: view.Count(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumStatements.Name(),
			Measure:     NumStatements,
			Description: NumStatements.Description(),
			Aggregation: view.Sum(),
			TagKeys:     allTagKeys,
		},
		{
			Name:        NumRecords.Name(),
			Measure:     NumRecords,
			Description: NumRecords.Description(),
			Aggregation: view.Sum(),
			TagKeys:     allTagKeys,
		},
	}
)

func init() {
	CheckfNoTrace(view.Register(allViews...))
}

// WithMethod returns a new updated context with the tag KeyMethod set to the given value.
func WithMethod(parent context.Context, method string) context.Context {
	ctx, err := tag.New(parent, tag.Upsert(KeyMethod, method))
	Check(err)
	return ctx
}

// WithStatus returns a context tagged with KeyStatus, ok when err is nil.
func WithStatus(parent context.Context, err error) context.Context {
	v := TagValueStatusOK
	if err != nil {
		v = TagValueStatusError
	}
	ctx, terr := tag.New(parent, tag.Upsert(KeyStatus, v))
	Check(terr)
	return ctx
}

// SinceMs returns the time since startTime in milliseconds (as a float).
func SinceMs(startTime time.Time) float64 {
	return float64(time.Since(startTime)) / 1e6
}

// NewPrometheusExporter returns an http.Handler serving every registered view in the
// Prometheus text format, with metric names prefixed by namespace.
func NewPrometheusExporter(namespace string) (*prometheus.Exporter, error) {
	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: namespace,
		Registry:  prom.NewRegistry(),
		OnError:   func(err error) { glog.Errorf("%v", err) },
	})
	if err != nil {
		return nil, errors.Wrapf(err, "while creating OpenCensus Prometheus exporter")
	}
	return pe, nil
}
