package source

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
		Subsystem: "source",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of upstream release listing requests, in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{metrics.LabelProvider, metrics.LabelSuccess})
	releasesFound = prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
		Namespace: metrics.Namespace,
		Subsystem: "source",
		Name:      "releases",
		Help:      "Number of versioned releases found upstream in the last run.",
	}, []string{metrics.LabelProvider})
)

type instrumented struct {
	next Source
}

// Instrument records the duration and outcome of each request made
// through next.
func Instrument(next Source) Source {
	return &instrumented{next: next}
}

func (i *instrumented) Releases(ctx context.Context, top int) (res []release.Release, err error) {
	start := time.Now()
	res, err = i.next.Releases(ctx, top)
	fetchDuration.With(
		metrics.LabelProvider, i.next.String(),
		metrics.LabelSuccess, strconv.FormatBool(err == nil),
	).Observe(time.Since(start).Seconds())
	if err == nil {
		releasesFound.With(metrics.LabelProvider, i.next.String()).Set(float64(len(res)))
	}
	return
}

func (i *instrumented) String() string {
	return i.next.String()
}
