package sync

import (
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"github.com/dfvsync/dfvsync/pkg/metrics"
)

var (
	releasesPublished = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: metrics.Namespace,
		Subsystem: "sync",
		Name:      "releases_published_total",
		Help:      "Count of releases committed, tagged and pushed.",
	}, []string{})
)
