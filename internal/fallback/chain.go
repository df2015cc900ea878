// Package fallback resolves a capability by trying an ordered list of
// strategies until one of them produces a result.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var (
	// ErrUnavailable means the strategy cannot run, usually for lack of a credential.
	ErrUnavailable = errors.New("strategy unavailable")
	// ErrNoResult means the provider answered without the expected field.
	ErrNoResult = errors.New("no result")
)

// Strategy is one way of resolving a capability request.
type Strategy[Req, Res any] interface {
	Name() string
	Resolve(ctx context.Context, req Req) (Res, error)
}

type funcStrategy[Req, Res any] struct {
	name string
	fn   func(ctx context.Context, req Req) (Res, error)
}

func (f funcStrategy[Req, Res]) Name() string { return f.name }

func (f funcStrategy[Req, Res]) Resolve(ctx context.Context, req Req) (Res, error) {
	return f.fn(ctx, req)
}

// Func adapts a plain function into a Strategy.
func Func[Req, Res any](name string, fn func(ctx context.Context, req Req) (Res, error)) Strategy[Req, Res] {
	return funcStrategy[Req, Res]{name: name, fn: fn}
}

// Offline adapts a deterministic, network-free function into a Strategy that never fails.
func Offline[Req, Res any](name string, fn func(req Req) Res) Strategy[Req, Res] {
	return funcStrategy[Req, Res]{name: name, fn: func(_ context.Context, req Req) (Res, error) {
		return fn(req), nil
	}}
}

// WithTimeout bounds every call of s by d.
func WithTimeout[Req, Res any](s Strategy[Req, Res], d time.Duration) Strategy[Req, Res] {
	if d <= 0 {
		return s
	}
	return funcStrategy[Req, Res]{name: s.Name(), fn: func(ctx context.Context, req Req) (Res, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return s.Resolve(ctx, req)
	}}
}

// Chain tries its strategies strictly in order and returns the first success.
type Chain[Req, Res any] struct {
	capability string
	strategies []Strategy[Req, Res]
	fallback   Res
	logger     *slog.Logger
}

// NewChain builds a chain for capability. Nil strategies are skipped.
func NewChain[Req, Res any](capability string, logger *slog.Logger, strategies ...Strategy[Req, Res]) *Chain[Req, Res] {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]Strategy[Req, Res], 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Chain[Req, Res]{
		capability: capability,
		strategies: kept,
		logger:     logger.With("capability", capability),
	}
}

// WithDefault sets the value returned when every strategy failed.
func (c *Chain[Req, Res]) WithDefault(v Res) *Chain[Req, Res] {
	c.fallback = v
	return c
}

// Capability names the resolved capability.
func (c *Chain[Req, Res]) Capability() string {
	return c.capability
}

// Strategies lists strategy names in priority order.
func (c *Chain[Req, Res]) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Resolve never fails: strategy errors are logged and the next one is tried.
func (c *Chain[Req, Res]) Resolve(ctx context.Context, req Req) Res {
	for _, s := range c.strategies {
		res, err := s.Resolve(ctx, req)
		if err == nil {
			return res
		}
		if errors.Is(err, ErrUnavailable) {
			c.logger.Debug("strategy skipped", "strategy", s.Name(), "error", err)
			continue
		}
		c.logger.Warn("strategy failed", "strategy", s.Name(), "error", err)
	}

	c.logger.Error("fallback chain exhausted", "strategies", strings.Join(c.Strategies(), ","))
	return c.fallback
}

// Unavailable builds an ErrUnavailable error naming the missing setting.
func Unavailable(what string) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, what)
}
