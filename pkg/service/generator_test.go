package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/presets"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, id string, r *domain.Result) error {
	return m.Called(ctx, id, r).Error(0)
}

func (m *mockStore) Load(ctx context.Context, id string) (*domain.Result, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*domain.Result)
	return r, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestGenerate_RunsAndCaches(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(presets.Default(), WithClock(fixedClock()))

	first, err := g.Generate(ctx, Request{Preset: "lots", Seed: 546})
	require.NoError(t, err)
	assert.Equal(t, 4, first.Iterations, "zero iterations take the preset default")
	assert.Equal(t, "bF{1}+bF{1}+bF{1}+bF{1}+P", first.Sequence)
	assert.Len(t, first.Lots, 4)
	assert.NotEmpty(t, first.ID)

	second, err := g.Generate(ctx, Request{Preset: "lots", Seed: 546, Iterations: 4})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt, "served from the store")

	other, err := g.Generate(ctx, Request{Preset: "lots", Seed: 547})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGenerate_Validation(t *testing.T) {
	g := NewGenerator(presets.Default(), WithMaxIterations(5))
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown preset", Request{Preset: "forest"}, presets.ErrUnknownPreset},
		{"negative iterations", Request{Preset: "tree", Iterations: -1}, ErrInvalidRequest},
		{"too many iterations", Request{Preset: "tree", Iterations: 6}, ErrInvalidRequest},
		{"bad depth mode", Request{Preset: "tree", DepthMode: "deepest"}, ErrInvalidRequest},
		{"bad params", Request{Preset: "lots", Params: map[string]any{"spacing": "wide"}}, presets.ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerate_DepthModeIsPartOfTheKey(t *testing.T) {
	g := NewGenerator(presets.Default())
	ctx := context.Background()

	reset, err := g.Generate(ctx, Request{Preset: "tree", Seed: 3, Iterations: 2})
	require.NoError(t, err)
	running, err := g.Generate(ctx, Request{Preset: "tree", Seed: 3, Iterations: 2, DepthMode: "running-max"})
	require.NoError(t, err)

	assert.NotEqual(t, reset.ID, running.ID)
	assert.Equal(t, reset.Sequence, running.Sequence)
	assert.GreaterOrEqual(t, running.MaxDepth, reset.MaxDepth)
}

func TestGetDeleteList(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(presets.Default(), WithStore(memory.NewStore()))

	r, err := g.Generate(ctx, Request{Preset: "city", Seed: 1, Params: map[string]any{"population": 0.5, "land_value": 0.5}})
	require.NoError(t, err)

	got, err := g.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Sequence, got.Sequence)

	list, err := g.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, Summary{
		ID:         r.ID,
		Preset:     "city",
		Seed:       1,
		Iterations: 6,
		Length:     len(r.Sequence),
		CreatedAt:  r.CreatedAt,
	}, list[0])

	require.NoError(t, g.Delete(ctx, r.ID))
	_, err = g.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ports.ErrResultNotFound)
	assert.ErrorIs(t, g.Delete(ctx, r.ID), ports.ErrResultNotFound)
}

func TestGenerate_LockerRunsOnce(t *testing.T) {
	m := observability.NewMetrics()
	g := NewGenerator(presets.Default(), WithLocker(memory.NewLocker()), WithMetrics(m))
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := g.Generate(ctx, Request{Preset: "tree", Seed: 42, Iterations: 2})
			if assert.NoError(t, err) {
				ids[i] = r.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Constructs.WithLabelValues("tree")))
}

func TestGenerate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGenerator(presets.Default())
	_, err := g.Generate(ctx, Request{Preset: "lots"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_StoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("load", func(t *testing.T) {
		store := new(mockStore)
		store.On("Load", mock.Anything, mock.Anything).Return(nil, boom)

		_, err := NewGenerator(presets.Default(), WithStore(store)).Generate(ctx, Request{Preset: "lots"})
		assert.ErrorIs(t, err, boom)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save", func(t *testing.T) {
		store := new(mockStore)
		store.On("Load", mock.Anything, mock.Anything).Return(nil, ports.ErrResultNotFound)
		store.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(boom)

		_, err := NewGenerator(presets.Default(), WithStore(store)).Generate(ctx, Request{Preset: "lots"})
		assert.ErrorIs(t, err, boom)
		store.AssertExpectations(t)
	})

	t.Run("list skips vanished results", func(t *testing.T) {
		store := new(mockStore)
		store.On("List", mock.Anything).Return([]string{"gone", "here"}, nil)
		store.On("Load", mock.Anything, "gone").Return(nil, ports.ErrResultNotFound)
		store.On("Load", mock.Anything, "here").Return(&domain.Result{ID: "here", Sequence: "F"}, nil)

		list, err := NewGenerator(presets.Default(), WithStore(store)).List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "here", list[0].ID)
		assert.Equal(t, 1, list[0].Length)
	})
}

func TestID_Deterministic(t *testing.T) {
	a, err := ID(Request{Preset: "tree", Seed: 1, Iterations: 3, Params: map[string]any{"b": 1, "a": 2}})
	require.NoError(t, err)
	b, err := ID(Request{Preset: "tree", Seed: 1, Iterations: 3, Params: map[string]any{"a": 2, "b": 1}})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = ID(Request{Preset: "tree", Params: map[string]any{"bad": func() {}}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
