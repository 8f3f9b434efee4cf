package core

import "context"

// ChartStorage defines the interface for chart definition persistence.
// The collection is read-modify-written as a whole: Save is a full
// overwrite, not incremental. Two concurrent writers (e.g. two processes
// sharing one database file) can silently clobber each other's changes;
// single-writer usage is assumed.
type ChartStorage interface {
	// List retrieves the stored chart collection in insertion order.
	// A missing or corrupt collection degrades to an empty one.
	List() []Chart

	// Save overwrites the stored chart collection
	Save(charts []Chart) error
}

// MetricReader fetches datapoints for a single metric by name
type MetricReader interface {
	GetMetric(ctx context.Context, name string) ([]Datapoint, error)
}

// MetricService is the full client contract against the metric data service
type MetricService interface {
	MetricReader
	ListMetrics(ctx context.Context) ([]string, error)
	AddDatapoints(ctx context.Context, name string, datapoints []Datapoint) error
	DeleteMetric(ctx context.Context, name string) error
}
