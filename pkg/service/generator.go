package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/presets"
)

// DefaultMaxIterations bounds requests when no limit is configured.
const DefaultMaxIterations = 8

// ErrInvalidRequest is returned when a request fails validation.
var ErrInvalidRequest = errors.New("invalid request")

// resultNamespace scopes the name-based UUIDs used as result ids.
var resultNamespace = uuid.MustParse("6f1d3c2a-9b0e-4c55-8d7a-3e2f1b0a9c41")

// Request asks for one preset run.
type Request struct {
	Preset     string         `json:"preset"`
	Seed       int64          `json:"seed"`
	Iterations int            `json:"iterations,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
	DepthMode  string         `json:"depth_mode,omitempty"`
}

// Summary is the listing view of a stored result.
type Summary struct {
	ID         string    `json:"id"`
	Preset     string    `json:"preset"`
	Seed       int64     `json:"seed"`
	Iterations int       `json:"iterations"`
	Length     int       `json:"length"`
	CreatedAt  time.Time `json:"created_at"`
}

// Generator runs presets and caches their results.
type Generator struct {
	catalog       *presets.Catalog
	store         ports.ResultStore
	locker        ports.DistributedLocker
	metrics       *observability.Metrics
	logger        *slog.Logger
	maxIterations int
	lockTTL       time.Duration
	now           func() time.Time
}

// Option configures the Generator.
type Option func(*Generator)

// WithStore sets the result store. The default is an in-memory store.
func WithStore(store ports.ResultStore) Option {
	return func(g *Generator) {
		g.store = store
	}
}

// WithLocker enables locking per request id.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(g *Generator) {
		g.locker = locker
	}
}

// WithMetrics records every run into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithLogger configures a logger for the Generator and the grammars it runs.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithMaxIterations caps the iterations a request may ask for.
func WithMaxIterations(n int) Option {
	return func(g *Generator) {
		g.maxIterations = n
	}
}

// WithLockTTL sets how long a request lock is held before it expires.
func WithLockTTL(ttl time.Duration) Option {
	return func(g *Generator) {
		if ttl > 0 {
			g.lockTTL = ttl
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a Generator over catalog.
func NewGenerator(catalog *presets.Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog:       catalog,
		logger:        logging.NewNop(),
		maxIterations: DefaultMaxIterations,
		lockTTL:       time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.store == nil {
		g.store = memory.NewStore()
	}
	return g
}

// Catalog returns the presets the generator serves.
func (g *Generator) Catalog() *presets.Catalog {
	return g.catalog
}

// ID returns the deterministic result id for req.
func ID(req Request) (string, error) {
	canonical, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return uuid.NewSHA1(resultNamespace, canonical).String(), nil
}

// normalize validates req and fills in defaults.
func (g *Generator) normalize(req Request) (Request, presets.Preset, arbor.DepthMode, error) {
	p, err := g.catalog.Get(req.Preset)
	if err != nil {
		return req, nil, 0, err
	}
	if req.Iterations < 0 {
		return req, nil, 0, fmt.Errorf("%w: iterations must not be negative", ErrInvalidRequest)
	}
	if req.Iterations == 0 {
		req.Iterations = p.DefaultIterations()
	}
	if g.maxIterations > 0 && req.Iterations > g.maxIterations {
		return req, nil, 0, fmt.Errorf("%w: iterations %d exceed the limit of %d",
			ErrInvalidRequest, req.Iterations, g.maxIterations)
	}
	mode, err := arbor.ParseDepthMode(req.DepthMode)
	if err != nil {
		return req, nil, 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.DepthMode = mode.String()
	return req, p, mode, nil
}

// Generate returns the result for req, running the preset on a cache miss.
func (g *Generator) Generate(ctx context.Context, req Request) (*domain.Result, error) {
	req, p, mode, err := g.normalize(req)
	if err != nil {
		return nil, err
	}
	id, err := ID(req)
	if err != nil {
		return nil, err
	}

	if g.locker != nil {
		unlock, err := g.locker.Lock(ctx, id, g.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock %s: %w", id, err)
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				g.logger.Warn("failed to release lock", "id", id, "err", err)
			}
		}()
	}

	cached, err := g.store.Load(ctx, id)
	if err == nil {
		g.logger.Debug("serving cached result", "id", id, "preset", req.Preset)
		return cached, nil
	}
	if !errors.Is(err, ports.ErrResultNotFound) {
		return nil, fmt.Errorf("failed to check result cache: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := []arbor.Option{
		arbor.WithLogger(g.logger),
		arbor.WithDepthMode(mode),
		arbor.WithLifecycleHooks(observability.LogHooks(g.logger)),
	}
	if g.metrics != nil {
		opts = append(opts, arbor.WithLifecycleHooks(g.metrics.Hooks(req.Preset)))
	}

	start := g.now()
	out, err := presets.Run(p, req.Seed, req.Iterations, req.Params, opts...)
	if err != nil {
		return nil, err
	}

	result := &domain.Result{
		ID:          id,
		Preset:      req.Preset,
		Seed:        req.Seed,
		Iterations:  req.Iterations,
		Params:      req.Params,
		Sequence:    out.Sequence,
		MaxDepth:    out.MaxDepth,
		Invocations: out.Invocations,
		Collisions:  out.Collisions,
		Instances:   out.Instances,
		Segments:    out.Segments,
		Lots:        out.Lots,
		CreatedAt:   g.now().UTC(),
	}

	if err := g.store.Save(ctx, id, result); err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	g.logger.Info("generated",
		"id", id,
		"preset", req.Preset,
		"seed", req.Seed,
		"iterations", req.Iterations,
		"length", len(out.Sequence),
		"duration", g.now().Sub(start),
	)
	return result, nil
}

// Get returns a stored result.
func (g *Generator) Get(ctx context.Context, id string) (*domain.Result, error) {
	return g.store.Load(ctx, id)
}

// Delete removes a stored result.
func (g *Generator) Delete(ctx context.Context, id string) error {
	if _, err := g.store.Load(ctx, id); err != nil {
		return err
	}
	return g.store.Delete(ctx, id)
}

// List summarises every stored result. Results that vanish while listing
// are skipped.
func (g *Generator) List(ctx context.Context) ([]Summary, error) {
	ids, err := g.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		r, err := g.store.Load(ctx, id)
		if errors.Is(err, ports.ErrResultNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			ID:         r.ID,
			Preset:     r.Preset,
			Seed:       r.Seed,
			Iterations: r.Iterations,
			Length:     len(r.Sequence),
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}
