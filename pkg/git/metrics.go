package git

import (
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"github.com/dfvsync/dfvsync/pkg/metrics"
)

const (
	LabelCommand = metrics.LabelCommand
	LabelSuccess = metrics.LabelSuccess
)

var (
	commandDuration = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Namespace: metrics.Namespace,
		Subsystem: "git",
		Name:      "command_duration_seconds",
		Help:      "Duration of git invocations, in seconds.",
		Buckets:   stdprometheus.DefBuckets,
	}, []string{LabelCommand, LabelSuccess})
)
