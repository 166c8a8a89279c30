package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry()
	hits := 0
	r.Register("grow", domain.Effect(func(*domain.Scope) { hits++ }))

	action, err := r.Lookup("grow")
	require.NoError(t, err)
	require.NoError(t, action.Apply(domain.NewScope(nil, nil)))
	assert.Equal(t, 1, hits)

	_, err = r.Lookup("missing")
	assert.EqualError(t, err, "action not found: missing")
}

func TestRegistry_OverwriteAndNames(t *testing.T) {
	r := NewRegistry()
	r.Register("b", domain.SaveState)
	r.Register("a", domain.SaveState)
	r.Register("b", domain.RestoreState)

	assert.Equal(t, []string{"a", "b"}, r.Names())
	action, err := r.Lookup("b")
	require.NoError(t, err)
	assert.Error(t, action.Apply(domain.NewScope(nil, nil)), "restore on empty stack")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register("x", domain.SaveState)
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Lookup("x")
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"x"}, r.Names())
}
