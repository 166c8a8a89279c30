package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

type tieredMiddleware struct {
	front  ports.ResultStore
	next   ports.ResultStore
	logger *slog.Logger
}

// NewTieredMiddleware puts front, usually an in-memory store, in front of
// the wrapped store. Writes go to both, reads are served from front when
// possible and backfill it on a miss. The wrapped store stays the source
// of truth for List.
func NewTieredMiddleware(front ports.ResultStore, logger *slog.Logger) Middleware {
	return func(next ports.ResultStore) ports.ResultStore {
		return &tieredMiddleware{front: front, next: next, logger: logger}
	}
}

func (m *tieredMiddleware) Save(ctx context.Context, id string, result *domain.Result) error {
	if err := m.next.Save(ctx, id, result); err != nil {
		return err
	}
	if err := m.front.Save(ctx, id, result); err != nil {
		m.logger.Warn("front store save failed", "id", id, "err", err)
	}
	return nil
}

func (m *tieredMiddleware) Load(ctx context.Context, id string) (*domain.Result, error) {
	result, err := m.front.Load(ctx, id)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ports.ErrResultNotFound) {
		m.logger.Warn("front store load failed", "id", id, "err", err)
	}

	result, err = m.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.front.Save(ctx, id, result); err != nil {
		m.logger.Warn("front store backfill failed", "id", id, "err", err)
	}
	return result, nil
}

func (m *tieredMiddleware) Delete(ctx context.Context, id string) error {
	if err := m.front.Delete(ctx, id); err != nil {
		m.logger.Warn("front store delete failed", "id", id, "err", err)
	}
	return m.next.Delete(ctx, id)
}

func (m *tieredMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
