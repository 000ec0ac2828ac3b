package metrics

/*
Labels and so on for metrics used in dfvsync.
*/

import (
	"github.com/pkg/errors"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	Namespace = "dfvsync"

	LabelSuccess  = "success"
	LabelProvider = "provider"
	LabelCommand  = "command"

	// Job is the push gateway job name runs are grouped under.
	Job = "dfvsync"
)

// Push sends everything in the default registry to the push gateway
// at url, replacing what was previously pushed for the job. A batch
// run has nobody to scrape it, so this is how its metrics get out.
func Push(url string, instance string) error {
	pusher := push.New(url, Job).Gatherer(stdprometheus.DefaultGatherer)
	if instance != "" {
		pusher = pusher.Grouping("instance", instance)
	}
	if err := pusher.Push(); err != nil {
		return errors.Wrapf(err, "pushing metrics to %s", url)
	}
	return nil
}
