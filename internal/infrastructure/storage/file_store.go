package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

// FileStore keeps records in memory and mirrors the whole collection into a
// single JSON file, an object keyed by record id. Arrays of records are read
// too. Concurrent processes writing the same file race; the last completed
// write wins.
type FileStore struct {
	path       string
	logger     *slog.Logger
	mu         sync.Mutex
	records    map[string]domain.EnrichedRecord
	unsaved    bool // a write failed; memory is authoritative and reloads are skipped
	unreadable bool // the file failed to parse; it is moved aside before the next write
}

var _ ports.RecordRepository = (*FileStore)(nil)

// NewFileStore builds the store and loads any existing file.
func NewFileStore(dir, name string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileStore{
		path:    filepath.Join(dir, name),
		logger:  logger,
		records: map[string]domain.EnrichedRecord{},
	}
	s.mu.Lock()
	s.reload()
	s.mu.Unlock()
	return s
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Upsert replaces the record with the same id and rewrites the file. A write
// failure is logged and the record stays available in memory.
func (s *FileStore) Upsert(_ context.Context, record domain.EnrichedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()
	s.records[record.ID] = record

	if err := s.save(); err != nil {
		s.unsaved = true
		s.logger.Warn("local store write failed, keeping records in memory", "path", s.path, "error", err)
	}
	return nil
}

// GetByID refreshes from the file and looks the record up.
func (s *FileStore) GetByID(_ context.Context, id string) (domain.EnrichedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()
	record, ok := s.records[id]
	if !ok {
		return domain.EnrichedRecord{}, domain.ErrNotFound
	}
	return record, nil
}

// List refreshes from the file and returns every record in map order.
func (s *FileStore) List(_ context.Context) ([]domain.EnrichedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()
	records := make([]domain.EnrichedRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	return records, nil
}

func (s *FileStore) reload() {
	if s.unsaved {
		return
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("local store read failed", "path", s.path, "error", err)
		}
		return
	}

	records, err := decodeRecords(raw)
	if err != nil {
		s.unreadable = true
		s.logger.Warn("local store unreadable, keeping records in memory", "path", s.path, "error", err)
		return
	}
	s.unreadable = false
	s.records = records
}

// decodeRecords accepts the collection either as an object keyed by id or as
// an array of records.
func decodeRecords(raw []byte) (map[string]domain.EnrichedRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]domain.EnrichedRecord{}, nil
	}

	if trimmed[0] == '[' {
		var list []domain.EnrichedRecord
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode record list: %w", err)
		}
		records := make(map[string]domain.EnrichedRecord, len(list))
		for _, record := range list {
			records[record.ID] = record
		}
		return records, nil
	}

	var byID map[string]domain.EnrichedRecord
	if err := json.Unmarshal(trimmed, &byID); err != nil {
		return nil, fmt.Errorf("decode record map: %w", err)
	}
	records := make(map[string]domain.EnrichedRecord, len(byID))
	for id, record := range byID {
		if record.ID == "" {
			record.ID = id
		}
		records[record.ID] = record
	}
	return records, nil
}

func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if s.unreadable {
		backup := fmt.Sprintf("%s.unreadable-%d", s.path, time.Now().UnixNano())
		if err := os.Rename(s.path, backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("back up unreadable file: %w", err)
		}
		s.logger.Warn("moved unreadable local store aside", "path", s.path, "backup", backup)
		s.unreadable = false
	}

	raw, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
