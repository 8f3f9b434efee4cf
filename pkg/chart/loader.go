// Package chart binds stored chart definitions to fetched metric data,
// exposing the create/edit/delete/refresh operations consumed by the
// boundary.
package chart

import (
	"context"

	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/logger"
)

// Loader resolves a chart's impulses into raw datapoint collections.
//
// Impulses are fetched strictly sequentially in definition order, so load
// latency grows linearly with impulse count. A single impulse's failure
// never aborts the remaining fetches and never surfaces as a chart-level
// error: the bad metric degrades to an empty series and the rest of the
// chart still renders.
type Loader struct {
	service core.MetricReader
	log     logger.Logger
}

// NewLoader creates a loader reading from the given metric service
func NewLoader(service core.MetricReader, log logger.Logger) *Loader {
	return &Loader{
		service: service,
		log:     log,
	}
}

// Load fetches the datapoints for every impulse. The result holds exactly
// one entry per distinct expression in the input; repeated expressions are
// fetched again and the last fetch wins.
func (l *Loader) Load(ctx context.Context, impulses []core.Impulse) map[string][]core.Datapoint {
	data := make(map[string][]core.Datapoint, len(impulses))

	for _, impulse := range impulses {
		points, err := l.service.GetMetric(ctx, impulse.Expression)
		if err != nil {
			l.log.WithError(err).
				WithField("metric", impulse.Expression).
				Warn("impulse fetch failed, series will be empty")
			data[impulse.Expression] = []core.Datapoint{}
			continue
		}

		if points == nil {
			points = []core.Datapoint{}
		}
		data[impulse.Expression] = points
	}

	return data
}
