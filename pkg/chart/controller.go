package chart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/logger"
	"github.com/impulsehq/impulse/pkg/plot"
)

// Controller is the composition root of the pipeline: it binds the stored
// chart definitions to the loader's fetches and the series transformer's
// output.
//
// The stored collection is read-modify-written as a whole under a single
// mutex. Two controllers writing to the same backing store (e.g. two
// processes sharing one database file) can still silently clobber each
// other's changes; that is a documented limitation, not handled here.
type Controller struct {
	mu          sync.Mutex
	storage     core.ChartStorage
	loader      *Loader
	log         logger.Logger
	generations map[string]uint64
}

// NewController creates a controller over the given storage and loader
func NewController(storage core.ChartStorage, loader *Loader, log logger.Logger) *Controller {
	return &Controller{
		storage:     storage,
		loader:      loader,
		log:         log,
		generations: make(map[string]uint64),
	}
}

// List returns all stored charts in insertion order
func (c *Controller) List() []core.Chart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storage.List()
}

// Get returns one stored chart by ID
func (c *Controller) Get(id string) (core.Chart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(id)
}

// Create persists a new chart from the given draft. The ID and timestamps
// of the draft are ignored; a fresh ID is generated and both timestamps are
// set to now. Impulses with blank expressions are dropped.
func (c *Controller) Create(draft core.Chart) (core.Chart, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return core.Chart{}, core.ErrEmptyName
	}

	now := time.Now().UnixMilli()
	chart := core.Chart{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Description: draft.Description,
		Impulses:    draft.ValidImpulses(),
		Duration:    draft.Duration,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	charts := append(c.storage.List(), chart)
	if err := c.storage.Save(charts); err != nil {
		return core.Chart{}, err
	}

	c.log.WithField("chart", chart.ID).Infof("created chart %q", chart.Name)
	return chart, nil
}

// Update replaces a stored chart with a new snapshot. The chart keeps its
// position in the collection, its ID and its creation time; UpdatedAt is
// refreshed.
func (c *Controller) Update(snapshot core.Chart) (core.Chart, error) {
	if strings.TrimSpace(snapshot.Name) == "" {
		return core.Chart{}, core.ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	charts := c.storage.List()
	for i, stored := range charts {
		if stored.ID != snapshot.ID {
			continue
		}

		snapshot.CreatedAt = stored.CreatedAt
		snapshot.Impulses = snapshot.ValidImpulses()
		snapshot.Touch(time.Now())
		charts[i] = snapshot

		if err := c.storage.Save(charts); err != nil {
			return core.Chart{}, err
		}
		return snapshot, nil
	}

	return core.Chart{}, core.ErrChartNotFound
}

// Delete removes a chart from the collection. Irreversible.
func (c *Controller) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	charts := c.storage.List()
	remaining := make([]core.Chart, 0, len(charts))
	for _, chart := range charts {
		if chart.ID != id {
			remaining = append(remaining, chart)
		}
	}

	if len(remaining) == len(charts) {
		return core.ErrChartNotFound
	}

	return c.storage.Save(remaining)
}

// Refresh loads and transforms the chart's series. Per-impulse fetch
// failures are absorbed by the loader; the returned error is reserved for
// failures that prevent the load entirely (unknown chart) and for stale
// results discarded by the generation guard under rapid re-trigger.
func (c *Controller) Refresh(ctx context.Context, id string) (plot.Data, error) {
	chart, err := c.Get(id)
	if err != nil {
		return plot.Data{}, err
	}

	impulses := chart.ValidImpulses()
	generation := c.nextGeneration(id)

	data := c.loader.Load(ctx, impulses)

	if !c.isLatest(id, generation) {
		return plot.Data{}, core.ErrStaleRefresh
	}

	return plot.Transform(impulses, data), nil
}

func (c *Controller) find(id string) (core.Chart, error) {
	for _, chart := range c.storage.List() {
		if chart.ID == id {
			return chart, nil
		}
	}
	return core.Chart{}, core.ErrChartNotFound
}

func (c *Controller) nextGeneration(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[id]++
	return c.generations[id]
}

func (c *Controller) isLatest(id string, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[id] == generation
}
