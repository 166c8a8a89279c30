// Package tests holds reusable contract suites for port implementations.
package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/geometry"
	"github.com/aretw0/arbor/pkg/ports"
)

func sampleResult(id string) *domain.Result {
	return &domain.Result{
		ID:          id,
		Preset:      "lots",
		Seed:        546,
		Iterations:  2,
		Params:      map[string]any{"spacing": "2"},
		Sequence:    "bF{1}+bF{1}+P",
		MaxDepth:    0,
		Invocations: 6,
		Segments: []geometry.Segment{
			{From: mgl64.Vec3{0, 0, 0}, To: mgl64.Vec3{0, 0.4, 0}, Depth: 2},
		},
		Lots: []geometry.Lot{
			{Kind: "square", Position: mgl64.Vec4{0, 0, 0, 1}, Scale: 30},
			{Kind: "square", Position: mgl64.Vec4{2, 0, 0, 1}, Scale: 30},
		},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// RunResultStoreContract verifies that a ResultStore implementation adheres
// to the interface contract.
func RunResultStoreContract(t *testing.T, store ports.ResultStore) {
	t.Helper()
	ctx := context.Background()
	id := fmt.Sprintf("contract-%d", time.Now().UnixNano())

	t.Run("Save and Load", func(t *testing.T) {
		want := sampleResult(id)
		require.NoError(t, store.Save(ctx, id, want))

		got, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want.Sequence, got.Sequence)
		assert.Equal(t, want.Seed, got.Seed)
		assert.Equal(t, want.Lots, got.Lots)
		assert.Equal(t, want.Segments, got.Segments)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, "2", got.Params["spacing"])
	})

	t.Run("Load is isolated from caller mutation", func(t *testing.T) {
		want := sampleResult(id)
		require.NoError(t, store.Save(ctx, id, want))
		want.Lots[0].Kind = "mutated"
		want.Sequence = "mutated"

		got, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "square", got.Lots[0].Kind)
		assert.Equal(t, "bF{1}+bF{1}+P", got.Sequence)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+id)
		assert.ErrorIs(t, err, ports.ErrResultNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, sampleResult(id)))
		require.NoError(t, store.Delete(ctx, id))

		_, err := store.Load(ctx, id)
		assert.ErrorIs(t, err, ports.ErrResultNotFound)

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is fine")
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := id+"-1", id+"-2"
		require.NoError(t, store.Save(ctx, id1, sampleResult(id1)))
		require.NoError(t, store.Save(ctx, id2, sampleResult(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunLockerContract verifies mutual exclusion and release of a DistributedLocker.
func RunLockerContract(t *testing.T, locker ports.DistributedLocker) {
	t.Helper()
	ctx := context.Background()

	t.Run("Exclusive", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract", time.Minute)
		require.NoError(t, err)

		short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(short, "contract", time.Minute)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, unlock(ctx))

		again, err := locker.Lock(ctx, "contract", time.Minute)
		require.NoError(t, err)
		require.NoError(t, again(ctx))
	})

	t.Run("Independent keys", func(t *testing.T) {
		a, err := locker.Lock(ctx, "a", time.Minute)
		require.NoError(t, err)
		defer func() { _ = a(ctx) }()

		b, err := locker.Lock(ctx, "b", time.Minute)
		require.NoError(t, err)
		require.NoError(t, b(ctx))
	})
}
