package registry

// Monitoring middleware for the Registry interface

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"github.com/dfvsync/dfvsync/pkg/metrics"
	"github.com/dfvsync/dfvsync/pkg/release"
)

var (
	fetchDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "registry",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of build history requests, in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{metrics.LabelProvider, metrics.LabelSuccess})
)

type instrumentedRegistry struct {
	next Registry
}

func NewInstrumentedRegistry(next Registry) Registry {
	return &instrumentedRegistry{
		next: next,
	}
}

func (m *instrumentedRegistry) Builds(ctx context.Context) (res []release.Build, err error) {
	start := time.Now()
	res, err = m.next.Builds(ctx)
	fetchDuration.With(
		metrics.LabelProvider, m.next.String(),
		metrics.LabelSuccess, strconv.FormatBool(err == nil),
	).Observe(time.Since(start).Seconds())
	return
}

func (m *instrumentedRegistry) String() string {
	return m.next.String()
}
