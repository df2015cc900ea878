package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

const (
	recordsTable        = "news_records"
	defaultProbeTimeout = 2 * time.Second
)

const schema = `CREATE TABLE IF NOT EXISTS news_records (
    id          TEXT PRIMARY KEY,
    document    JSONB NOT NULL,
    ingested_at TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS news_records_ingested_at_idx ON news_records (ingested_at DESC);`

// PostgresRepository persists enriched records as JSONB documents in Postgres.
type PostgresRepository struct {
	db           *sql.DB
	builder      sq.StatementBuilderType
	probeTimeout time.Duration
}

var _ ports.RecordRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB, probeTimeout time.Duration) *PostgresRepository {
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	return &PostgresRepository{
		db:           db,
		builder:      sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		probeTimeout: probeTimeout,
	}
}

// Open connects to dsn with the pq driver without dialing yet.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// Alive pings the database within the probe timeout.
func (r *PostgresRepository) Alive(ctx context.Context) bool {
	if r.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()
	return r.db.PingContext(ctx) == nil
}

// EnsureSchema creates the records table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Upsert inserts the record or replaces the stored document with the same id.
func (r *PostgresRepository) Upsert(ctx context.Context, record domain.EnrichedRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	query, args, err := r.builder.
		Insert(recordsTable).
		Columns("id", "document", "ingested_at").
		Values(record.ID, doc, record.IngestedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, ingested_at = EXCLUDED.ingested_at, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert record %s: %v", domain.ErrPersistence, record.ID, err)
	}
	return nil
}

// GetByID loads a single record.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (domain.EnrichedRecord, error) {
	query, args, err := r.builder.
		Select("document").
		From(recordsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.EnrichedRecord{}, fmt.Errorf("build select: %w", err)
	}

	var doc []byte
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.EnrichedRecord{}, domain.ErrNotFound
		}
		return domain.EnrichedRecord{}, fmt.Errorf("%w: query record %s: %v", domain.ErrPersistence, id, err)
	}

	return decodeRecord(doc)
}

// List returns every record, most recently ingested first.
func (r *PostgresRepository) List(ctx context.Context) ([]domain.EnrichedRecord, error) {
	query, args, err := r.builder.
		Select("document").
		From(recordsTable).
		OrderBy("ingested_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %v", domain.ErrPersistence, err)
	}

	records := make([]domain.EnrichedRecord, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan record: %w", err)
		}
		record, err := decodeRecord(doc)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return records, nil
}

func decodeRecord(doc []byte) (domain.EnrichedRecord, error) {
	var record domain.EnrichedRecord
	if err := json.Unmarshal(doc, &record); err != nil {
		return domain.EnrichedRecord{}, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}
