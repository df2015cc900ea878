package storage

import (
	"context"
	"log/slog"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

// LivenessFunc reports whether the remote store currently has a live connection.
type LivenessFunc func(ctx context.Context) bool

// Gateway routes every call to the remote store when it is alive and to the
// local store otherwise. The probe runs per call, so consecutive operations may
// land on different backends while the remote store flaps.
type Gateway struct {
	remote ports.RecordRepository
	alive  LivenessFunc
	local  ports.RecordRepository
	logger *slog.Logger
}

var _ ports.RecordRepository = (*Gateway)(nil)

// NewGateway wires both backends. A nil remote or alive func means local-only.
func NewGateway(remote ports.RecordRepository, alive LivenessFunc, local ports.RecordRepository, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{remote: remote, alive: alive, local: local, logger: logger}
}

func (g *Gateway) backend(ctx context.Context) (ports.RecordRepository, string) {
	if g.remote != nil && g.alive != nil && g.alive(ctx) {
		return g.remote, "remote"
	}
	return g.local, "local"
}

// Upsert stores the record on the selected backend.
func (g *Gateway) Upsert(ctx context.Context, record domain.EnrichedRecord) error {
	repo, name := g.backend(ctx)
	g.logger.Debug("upsert record", "backend", name, "id", record.ID)
	return repo.Upsert(ctx, record)
}

// GetByID loads a record from the selected backend.
func (g *Gateway) GetByID(ctx context.Context, id string) (domain.EnrichedRecord, error) {
	repo, name := g.backend(ctx)
	g.logger.Debug("get record", "backend", name, "id", id)
	return repo.GetByID(ctx, id)
}

// List returns all records from the selected backend.
func (g *Gateway) List(ctx context.Context) ([]domain.EnrichedRecord, error) {
	repo, name := g.backend(ctx)
	g.logger.Debug("list records", "backend", name)
	return repo.List(ctx)
}
