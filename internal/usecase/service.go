package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

// NewsService is the public face of the enricher: process, fetch, list and
// seed records.
type NewsService struct {
	enricher *Enricher
	repo     ports.RecordRepository
	logger   *slog.Logger
}

// NewNewsService wires the orchestrator with the persistence gateway.
func NewNewsService(enricher *Enricher, repo ports.RecordRepository, logger *slog.Logger) *NewsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsService{enricher: enricher, repo: repo, logger: logger}
}

// Process enriches the item and persists the record. A storage failure is
// logged and does not discard the enriched record.
func (s *NewsService) Process(ctx context.Context, item domain.RawItem) (domain.EnrichedRecord, error) {
	record, err := s.enricher.Enrich(ctx, item)
	if err != nil {
		return domain.EnrichedRecord{}, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		s.logger.Error("persist enriched record", "id", record.ID, "error", err)
	} else {
		s.logger.Info("news article processed", "id", record.ID, "title", record.Title)
	}

	return record, nil
}

// Get returns the record with the given id or domain.ErrNotFound.
func (s *NewsService) Get(ctx context.Context, id string) (domain.EnrichedRecord, error) {
	if id == "" {
		return domain.EnrichedRecord{}, fmt.Errorf("%w: id is required", domain.ErrInvalidItem)
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("fetch news article", "id", id, "error", err)
		}
		return domain.EnrichedRecord{}, err
	}
	return record, nil
}

// List returns every stored record, newest first.
func (s *NewsService) List(ctx context.Context) ([]domain.EnrichedRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list news articles", "error", err)
		return nil, err
	}
	return records, nil
}

// Seed enriches and stores the bundled sample article.
func (s *NewsService) Seed(ctx context.Context) (domain.EnrichedRecord, error) {
	record, err := s.Process(ctx, SampleItem(time.Now().UTC()))
	if err != nil {
		s.logger.Error("seed sample data", "error", err)
		return domain.EnrichedRecord{}, err
	}
	s.logger.Info("sample data seeded", "id", record.ID)
	return record, nil
}

// SampleItem is the demo article used by Seed.
func SampleItem(publishedAt time.Time) domain.RawItem {
	return domain.RawItem{
		Title: "South Africa Embraces Solar and Battery Storage in Landmark Energy Shift",
		Body: "The South African government has unveiled a comprehensive renewable energy investment strategy " +
			"worth $15 billion over the next five years. The plan focuses on solar and wind power projects across " +
			"the country, aiming to reduce carbon emissions by 40% and create over 50,000 jobs in the green energy " +
			"sector. Key projects include the construction of solar farms in the Northern Cape and wind energy " +
			"facilities along the Western Cape coastline. Energy Minister Gwede Mantashe announced that the " +
			"initiative will prioritize local content and community participation, ensuring that benefits reach " +
			"rural and underserved areas. The investment is expected to position South Africa as a leader in " +
			"renewable energy on the African continent, with potential for exporting clean energy to neighboring " +
			"countries. International partners including the World Bank and European Investment Bank have " +
			"committed to supporting the initiative through low-interest loans and technical assistance.",
		SourceURL:   "https://www.satorinews.com/articles/2024-12-27/south-africa-embraces-solar-and-battery-storage-in-landmark-energy-shift-533811",
		Publisher:   "African Energy News",
		PublishedAt: publishedAt,
	}
}
