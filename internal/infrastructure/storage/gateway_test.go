package storage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/logging"
)

type memRepo struct {
	records map[string]domain.EnrichedRecord
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[string]domain.EnrichedRecord{}}
}

func (m *memRepo) Upsert(_ context.Context, rec domain.EnrichedRecord) error {
	m.records[rec.ID] = rec
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (domain.EnrichedRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return domain.EnrichedRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (m *memRepo) List(context.Context) ([]domain.EnrichedRecord, error) {
	out := make([]domain.EnrichedRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func TestGatewayRoutesByLiveness(t *testing.T) {
	remote := newMemRepo()
	local := newMemRepo()
	var up atomic.Bool
	up.Store(true)

	gw := NewGateway(remote, func(context.Context) bool { return up.Load() }, local, logging.Discard())
	ctx := context.Background()

	require.NoError(t, gw.Upsert(ctx, sampleRecord("r1", time.Now().UTC())))
	assert.Contains(t, remote.records, "r1")
	assert.NotContains(t, local.records, "r1")

	up.Store(false)
	require.NoError(t, gw.Upsert(ctx, sampleRecord("l1", time.Now().UTC())))
	assert.Contains(t, local.records, "l1")

	_, err := gw.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "remote records are invisible while the remote is down")

	up.Store(true)
	got, err := gw.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
}

func TestGatewayWithoutRemoteIsLocalOnly(t *testing.T) {
	local := NewFileStore(t.TempDir(), "news.json", logging.Discard())
	gw := NewGateway(nil, nil, local, logging.Discard())
	ctx := context.Background()

	rec := sampleRecord("x", time.Now().UTC())
	require.NoError(t, gw.Upsert(ctx, rec))
	require.NoError(t, gw.Upsert(ctx, rec))

	all, err := gw.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = gw.GetByID(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
