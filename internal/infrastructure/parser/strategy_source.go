package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
	"NewsEnricher/internal/source"
)

// StrategySource implements ArticleSource via registered ingestion adapters.
type StrategySource struct {
	registry *source.Registry
	feeds    []config.FeedConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires the adapter registry with config-defined feeds.
func NewStrategySource(reg *source.Registry, feeds []config.FeedConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		feeds:    feeds,
		logger:   log,
	}
}

// FetchAll iterates over configured feeds and executes their adapters. A
// failing feed does not stop the others; every failure is returned joined.
func (s *StrategySource) FetchAll(ctx context.Context) ([]domain.RawItem, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	s.debug("fetch feeds", "feeds", len(s.feeds))

	var (
		aggregated []domain.RawItem
		errs       []error
	)
	for _, feed := range s.feeds {
		adapter, err := s.registry.Resolve(feed.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", feed.Name, err))
			continue
		}

		results, err := adapter.Fetch(ctx, source.Request{
			Name:   feed.Name,
			Target: feed.URL,
			Limit:  feed.Limit,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("fetch feed %s: %w", feed.Name, err))
			continue
		}

		s.debug("feed produced items", "feed", feed.Name, "kind", feed.Kind, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_items", len(aggregated))
	return aggregated, errors.Join(errs...)
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
