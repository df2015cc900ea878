package source

import (
	"context"
	"fmt"

	"NewsEnricher/internal/domain"
)

// Request carries everything an adapter needs to pull items from one upstream.
type Request struct {
	Name   string
	Target string
	Limit  int
}

// Adapter captures a single ingestion strategy (page scraping, RSS, etc.).
type Adapter interface {
	Kind() string
	Fetch(ctx context.Context, req Request) ([]domain.RawItem, error)
}

// Registry keeps a mapping from adapter kinds to their implementations.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds a registry with the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: map[string]Adapter{}}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(adapter Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	r.adapters[adapter.Kind()] = adapter
}

// Resolve returns an adapter by kind or an error if it is absent.
func (r *Registry) Resolve(kind string) (Adapter, error) {
	if adapter, ok := r.adapters[kind]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("source adapter %q is not registered", kind)
}
