package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// ErrResultNotFound is returned by Load for unknown ids.
var ErrResultNotFound = domain.ErrResultNotFound

// ResultStore persists generation results so identical requests can be served
// without running the grammar again.
type ResultStore interface {
	// Save persists the result under id, replacing any previous value.
	Save(ctx context.Context, id string, result *domain.Result) error

	// Load retrieves the result for id.
	// Returns ErrResultNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Result, error)

	// Delete removes the result for id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of every stored result.
	List(ctx context.Context) ([]string, error)
}
