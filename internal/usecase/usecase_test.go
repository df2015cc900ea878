package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/enrichment"
	"NewsEnricher/internal/logging"
)

func offlineEnricher() *Enricher {
	caps := enrichment.New(enrichment.Providers{}, enrichment.DefaultTimeouts(), logging.Discard())
	return NewEnricher(caps, logging.Discard())
}

type memRepo struct {
	mu      sync.Mutex
	records map[string]domain.EnrichedRecord
	failing bool
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[string]domain.EnrichedRecord{}}
}

func (m *memRepo) Upsert(_ context.Context, rec domain.EnrichedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return domain.ErrPersistence
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (domain.EnrichedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return domain.EnrichedRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (m *memRepo) List(context.Context) ([]domain.EnrichedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EnrichedRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

type garbageGenerator struct{}

func (garbageGenerator) Generate(context.Context, string, int) (string, error) {
	return "I am not sure what you mean.", nil
}

func TestEnrichWithoutCredentialsUsesOfflineStrategies(t *testing.T) {
	item := SampleItem(time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC))

	rec, err := offlineEnricher().Enrich(context.Background(), item)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(rec.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, item.Title, rec.Title)
	assert.Equal(t, item.Body, rec.Body)
	assert.Equal(t, item.SourceURL, rec.SourceURL)
	assert.Equal(t, item.Publisher, rec.Publisher)
	assert.True(t, item.PublishedAt.Equal(rec.PublishedAt))
	assert.False(t, rec.IngestedAt.IsZero())
	assert.Equal(t, time.UTC, rec.IngestedAt.Location())

	assert.NotEmpty(t, rec.Summary)
	assert.NotEmpty(t, rec.Tags)
	assert.InDelta(t, 0.85, rec.RelevanceScore, 1e-9)
	require.NotNil(t, rec.Media.FeaturedImageURL)
	require.NotNil(t, rec.Media.RelatedVideoURL)
	assert.NotEmpty(t, rec.Media.MediaJustification)
	assert.NotEmpty(t, rec.Context.WikipediaSnippet)
	assert.NotEmpty(t, rec.Context.SocialSentiment)
	assert.NotEmpty(t, rec.Context.SearchTrend)
	require.NotNil(t, rec.Context.Geo)
	assert.Equal(t, "South Africa", rec.Context.Geo.FormattedAddress)
	assert.Equal(t, domain.MapURL(rec.Context.Geo.Lat, rec.Context.Geo.Lng), rec.Context.Geo.MapURL)
}

func TestEnrichIsDeterministicOffline(t *testing.T) {
	item := SampleItem(time.Now().UTC())
	e := offlineEnricher()

	first, err := e.Enrich(context.Background(), item)
	require.NoError(t, err)
	second, err := e.Enrich(context.Background(), item)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Tags, second.Tags)
	assert.Equal(t, first.Context.SocialSentiment, second.Context.SocialSentiment)
	assert.Equal(t, first.Context.SearchTrend, second.Context.SearchTrend)
}

func TestEnrichToleratesUnparseableModelOutput(t *testing.T) {
	caps := enrichment.New(enrichment.Providers{Generator: garbageGenerator{}}, enrichment.DefaultTimeouts(), logging.Discard())
	e := NewEnricher(caps, logging.Discard())

	rec, err := e.Enrich(context.Background(), SampleItem(time.Now().UTC()))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTags, rec.Tags)
	assert.InDelta(t, domain.DefaultRelevance, rec.RelevanceScore, 1e-9)
	assert.Equal(t, "I am not sure what you mean.", rec.Summary)
}

func TestEnrichRejectsEmptyItem(t *testing.T) {
	_, err := offlineEnricher().Enrich(context.Background(), domain.RawItem{Title: "  ", Body: "text"})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

type panickingCaps struct {
	*enrichment.Capabilities
}

func (panickingCaps) SocialSentiment(context.Context, string, []string) string {
	panic("provider client bug")
}

func TestEnrichRecoversPanicsAsProcessingFailure(t *testing.T) {
	caps := panickingCaps{enrichment.New(enrichment.Providers{}, enrichment.DefaultTimeouts(), logging.Discard())}
	e := NewEnricher(caps, logging.Discard())

	_, err := e.Enrich(context.Background(), SampleItem(time.Now().UTC()))
	require.Error(t, err)
	assert.Equal(t, domain.ErrProcessingFailed, err)
	assert.Equal(t, "failed to process article", err.Error())
}

// recordingCaps answers every dimension with fixed values and records the tags
// each tag-dependent capability received.
type recordingCaps struct {
	tags []string

	mu       sync.Mutex
	tagsDone bool
	received map[string][]string
	early    []string
}

func newRecordingCaps(tags []string) *recordingCaps {
	return &recordingCaps{tags: tags, received: map[string][]string{}}
}

func (r *recordingCaps) record(name string, tags []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.tagsDone {
		r.early = append(r.early, name)
	}
	r.received[name] = append([]string(nil), tags...)
}

func (r *recordingCaps) Summary(context.Context, string, string) string { return "summary" }

func (r *recordingCaps) Tags(context.Context, string, string) []string {
	time.Sleep(10 * time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tagsDone = true
	return r.tags
}

func (r *recordingCaps) Relevance(context.Context, string, string) float64 { return 0.5 }

func (r *recordingCaps) MediaJustification(context.Context, string, string, string) string {
	return "fits"
}

func (r *recordingCaps) Snippet(context.Context, string) string { return "snippet" }

func (r *recordingCaps) FeaturedImage(_ context.Context, _ string, tags []string) string {
	r.record("image", tags)
	return "https://images.example/a.jpg"
}

func (r *recordingCaps) RelatedVideo(_ context.Context, _ string, tags []string) string {
	r.record("video", tags)
	return ""
}

func (r *recordingCaps) SocialSentiment(_ context.Context, _ string, tags []string) string {
	r.record("sentiment", tags)
	return "neutral"
}

func (r *recordingCaps) SearchTrend(_ context.Context, _ string, tags []string) string {
	r.record("trend", tags)
	return "flat"
}

func (r *recordingCaps) GeoContext(context.Context, string, string) domain.Geo {
	return domain.NewGeo(1, 2, "Somewhere")
}

func TestEnrichPassesGeneratedTagsToDependentCapabilities(t *testing.T) {
	caps := newRecordingCaps([]string{"#Solar", "#Grid"})
	e := NewEnricher(caps, logging.Discard())

	rec, err := e.Enrich(context.Background(), SampleItem(time.Now().UTC()))
	require.NoError(t, err)

	assert.Empty(t, caps.early, "tag consumers ran before tags were generated")
	for _, name := range []string{"image", "video", "sentiment", "trend"} {
		assert.Equal(t, []string{"#Solar", "#Grid"}, caps.received[name], name)
	}
	assert.Equal(t, []string{"#Solar", "#Grid"}, rec.Tags)
	assert.Nil(t, rec.Media.RelatedVideoURL)
}

func TestEnrichPassesDefaultTagsWhenNoneGenerated(t *testing.T) {
	caps := newRecordingCaps(nil)
	e := NewEnricher(caps, logging.Discard())

	rec, err := e.Enrich(context.Background(), SampleItem(time.Now().UTC()))
	require.NoError(t, err)

	for _, name := range []string{"image", "video", "sentiment", "trend"} {
		assert.Equal(t, domain.DefaultTags, caps.received[name], name)
	}
	assert.Equal(t, domain.DefaultTags, rec.Tags)
}

func TestServiceProcessPersistsAndFetches(t *testing.T) {
	repo := newMemRepo()
	svc := NewNewsService(offlineEnricher(), repo, logging.Discard())
	ctx := context.Background()

	rec, err := svc.Process(ctx, SampleItem(time.Now().UTC()))
	require.NoError(t, err)

	got, err := svc.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestServiceProcessSurvivesStorageFailure(t *testing.T) {
	repo := newMemRepo()
	repo.failing = true
	svc := NewNewsService(offlineEnricher(), repo, logging.Discard())

	rec, err := svc.Process(context.Background(), SampleItem(time.Now().UTC()))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Empty(t, repo.records)
}

func TestServiceSeed(t *testing.T) {
	repo := newMemRepo()
	svc := NewNewsService(offlineEnricher(), repo, logging.Discard())

	rec, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rec.Title, "South Africa")
	assert.Contains(t, repo.records, rec.ID)
}

type stubProcessor struct {
	mu    sync.Mutex
	calls int
}

func (s *stubProcessor) Process(_ context.Context, item domain.RawItem) (domain.EnrichedRecord, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if item.Title == "bad" {
		return domain.EnrichedRecord{}, domain.ErrProcessingFailed
	}
	return domain.EnrichedRecord{ID: "id-" + item.Title, Title: item.Title}, nil
}

type stubSource struct {
	items []domain.RawItem
	err   error
}

func (s stubSource) FetchAll(context.Context) ([]domain.RawItem, error) {
	return s.items, s.err
}

type stubFeeds struct {
	gotLimit int
}

func (s *stubFeeds) ReadFeed(_ context.Context, _ string, limit int) ([]domain.RawItem, error) {
	s.gotLimit = limit
	return []domain.RawItem{{Title: "one"}, {Title: "bad"}, {Title: "three"}}, nil
}

type stubScraper struct{ err error }

func (s stubScraper) Scrape(_ context.Context, url string) (domain.RawItem, error) {
	if s.err != nil {
		return domain.RawItem{}, s.err
	}
	return domain.RawItem{Title: "scraped", SourceURL: url}, nil
}

type recordingNotifier struct {
	digests []string
}

func (r *recordingNotifier) PublishDigest(_ context.Context, digest string) error {
	r.digests = append(r.digests, digest)
	return nil
}

func newTestPipeline(t *testing.T, deps PipelineDeps) *Pipeline {
	t.Helper()
	deps.Logger = logging.Discard()
	p, err := NewPipeline(deps)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestIngestFeedReportsPerItemResults(t *testing.T) {
	feeds := &stubFeeds{}
	proc := &stubProcessor{}
	p := newTestPipeline(t, PipelineDeps{Feeds: feeds, Processor: proc, Workers: 2})

	results, err := p.IngestFeed(context.Background(), "http://feed", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, feeds.gotLimit)
	require.Len(t, results, 3)

	assert.Equal(t, ItemResult{OK: true, ID: "id-one", Title: "one"}, results[0])
	assert.False(t, results[1].OK)
	assert.Equal(t, "bad", results[1].Title)
	assert.Equal(t, "failed to process article", results[1].Error)
	assert.True(t, results[2].OK)
	assert.Equal(t, 3, proc.calls)
}

func TestIngestURL(t *testing.T) {
	p := newTestPipeline(t, PipelineDeps{Scraper: stubScraper{}, Processor: &stubProcessor{}, Workers: 1})
	rec, err := p.IngestURL(context.Background(), "http://news/1")
	require.NoError(t, err)
	assert.Equal(t, "id-scraped", rec.ID)

	failing := newTestPipeline(t, PipelineDeps{Scraper: stubScraper{err: errors.New("boom")}, Processor: &stubProcessor{}, Workers: 1})
	_, err = failing.IngestURL(context.Background(), "http://news/1")
	assert.ErrorContains(t, err, "boom")
}

func TestRunScheduledPublishesDigest(t *testing.T) {
	notifier := &recordingNotifier{}
	feedErr := errors.New("feed down")
	p := newTestPipeline(t, PipelineDeps{
		Source:    stubSource{items: []domain.RawItem{{Title: "alpha"}, {Title: "bad"}}, err: feedErr},
		Processor: &stubProcessor{},
		Notifier:  notifier,
		Workers:   2,
	})

	trigger := time.Date(2025, 5, 1, 6, 0, 0, 0, time.UTC)
	err := p.RunScheduled(context.Background(), trigger)
	assert.ErrorIs(t, err, feedErr)

	require.Len(t, notifier.digests, 1)
	assert.Equal(t, "News digest 2025-05-01 06:00\n• alpha (id-alpha)", notifier.digests[0])
}

func TestRunScheduledSkipsDigestWithoutSuccesses(t *testing.T) {
	notifier := &recordingNotifier{}
	p := newTestPipeline(t, PipelineDeps{
		Source:    stubSource{items: []domain.RawItem{{Title: "bad"}}},
		Processor: &stubProcessor{},
		Notifier:  notifier,
		Workers:   1,
	})

	require.NoError(t, p.RunScheduled(context.Background(), time.Now()))
	assert.Empty(t, notifier.digests)
}
