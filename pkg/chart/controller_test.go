package chart

import (
	"context"
	"sync"
	"testing"

	"github.com/impulsehq/impulse/pkg/core"
	"github.com/impulsehq/impulse/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, service core.MetricReader) *Controller {
	t.Helper()
	log := testLogger()
	store := storage.NewKVStorage(storage.NewMemoryKV(), log)
	return NewController(store, NewLoader(service, log), log)
}

func TestController_CreateAndRefreshScenario(t *testing.T) {
	service := &fakeService{
		responses: map[string][]core.Datapoint{
			"expenses": {
				{Timestamp: ts(200), Value: -5, Dimensions: map[string]any{}},
				{Timestamp: ts(100), Value: -3, Dimensions: map[string]any{}},
			},
		},
	}
	controller := newTestController(t, service)

	created, err := controller.Create(core.Chart{
		Name: "Spend",
		Impulses: []core.Impulse{
			{Expression: "expenses", Color: "#ff0000", DisplayType: core.DisplayTypeDots},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotZero(t, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	charts := controller.List()
	require.Len(t, charts, 1)
	assert.Equal(t, created, charts[0])

	data, err := controller.Refresh(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, data.Series, 1)

	series := data.Series[0]
	assert.Equal(t, core.RenderKindScatter, series.Kind)
	require.Len(t, series.Points, 2)
	assert.Equal(t, core.Point{X: 100, Y: -3, Dimensions: map[string]any{}}, series.Points[0])
	assert.Equal(t, core.Point{X: 200, Y: -5, Dimensions: map[string]any{}}, series.Points[1])
}

func TestController_CreateRejectsEmptyName(t *testing.T) {
	controller := newTestController(t, &fakeService{})

	_, err := controller.Create(core.Chart{Name: "   "})
	assert.ErrorIs(t, err, core.ErrEmptyName)
}

func TestController_CreateDropsBlankImpulses(t *testing.T) {
	controller := newTestController(t, &fakeService{})

	created, err := controller.Create(core.Chart{
		Name: "c",
		Impulses: []core.Impulse{
			{Expression: "   "},
			{Expression: "kept"},
			{Expression: ""},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Impulses, 1)
	assert.Equal(t, "kept", created.Impulses[0].Expression)
}

func TestController_UpdatePreservesIdentityAndPosition(t *testing.T) {
	controller := newTestController(t, &fakeService{})

	first, err := controller.Create(core.Chart{Name: "first", Impulses: impulses("a")})
	require.NoError(t, err)
	_, err = controller.Create(core.Chart{Name: "second", Impulses: impulses("b")})
	require.NoError(t, err)

	first.Name = "renamed"
	first.Impulses = impulses("a", "c")
	updated, err := controller.Update(first)
	require.NoError(t, err)

	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, first.CreatedAt, updated.CreatedAt)
	assert.GreaterOrEqual(t, updated.UpdatedAt, updated.CreatedAt)

	charts := controller.List()
	require.Len(t, charts, 2)
	assert.Equal(t, "renamed", charts[0].Name)
	assert.Equal(t, []core.Impulse{{Expression: "a"}, {Expression: "c"}}, charts[0].Impulses)
}

func TestController_UpdateUnknownChart(t *testing.T) {
	controller := newTestController(t, &fakeService{})

	_, err := controller.Update(core.Chart{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, core.ErrChartNotFound)
}

func TestController_Delete(t *testing.T) {
	controller := newTestController(t, &fakeService{})

	created, err := controller.Create(core.Chart{Name: "doomed", Impulses: impulses("a")})
	require.NoError(t, err)

	require.NoError(t, controller.Delete(created.ID))
	assert.Empty(t, controller.List())

	assert.ErrorIs(t, controller.Delete(created.ID), core.ErrChartNotFound)
}

func TestController_RefreshUnknownChart(t *testing.T) {
	controller := newTestController(t, &fakeService{})

	_, err := controller.Refresh(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrChartNotFound)
}

func TestController_RefreshAbsorbsImpulseFailures(t *testing.T) {
	service := &fakeService{
		responses: map[string][]core.Datapoint{
			"b": {{Timestamp: ts(1), Value: 1}},
		},
		errs: map[string]error{
			"a": &core.ServiceError{Message: "boom", Status: 500},
		},
	}
	controller := newTestController(t, service)

	created, err := controller.Create(core.Chart{Name: "partial", Impulses: impulses("a", "b")})
	require.NoError(t, err)

	data, err := controller.Refresh(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, data.Series, 2)
	assert.Empty(t, data.Series[0].Points)
	assert.Len(t, data.Series[1].Points, 1)
	assert.True(t, data.HasData)
}

// blockingService stalls its first fetch until released so a second,
// faster load can overtake it
type blockingService struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (b *blockingService) GetMetric(_ context.Context, _ string) ([]core.Datapoint, error) {
	b.mu.Lock()
	b.calls++
	first := b.calls == 1
	b.mu.Unlock()

	if first {
		close(b.started)
		<-b.release
	}
	return []core.Datapoint{{Timestamp: ts(1), Value: 1}}, nil
}

func TestController_RefreshDiscardsStaleResults(t *testing.T) {
	service := &blockingService{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	controller := newTestController(t, service)

	created, err := controller.Create(core.Chart{Name: "raced", Impulses: impulses("a")})
	require.NoError(t, err)

	slowErr := make(chan error, 1)
	go func() {
		_, err := controller.Refresh(context.Background(), created.ID)
		slowErr <- err
	}()

	// Wait for the slow load to be in flight, then let a newer one win
	<-service.started
	_, err = controller.Refresh(context.Background(), created.ID)
	require.NoError(t, err)

	close(service.release)
	assert.ErrorIs(t, <-slowErr, core.ErrStaleRefresh)
}
