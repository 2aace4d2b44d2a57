// Package store persists MedsCheck records and caches extraction results.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/openpharm/medscheck-forms/internal/forms"
)

// ErrRecordNotFound is returned when a record id does not exist.
var ErrRecordNotFound = errors.New("store: record not found")

// RecordRepository defines the interface for record storage.
type RecordRepository interface {
	Create(ctx context.Context, record forms.Record) error
	GetByID(ctx context.Context, id string) (forms.Record, error)
	Update(ctx context.Context, record forms.Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]forms.Record, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]forms.Record
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]forms.Record),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, record forms.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = record.Clone()
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (forms.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return forms.Record{}, ErrRecordNotFound
	}
	return record.Clone(), nil
}

func (r *InMemoryRepository) Update(_ context.Context, record forms.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.ID]; !ok {
		return ErrRecordNotFound
	}
	r.records[record.ID] = record.Clone()
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

// List returns records ordered by creation time, newest first.
func (r *InMemoryRepository) List(_ context.Context, limit, offset int) ([]forms.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]forms.Record, 0, len(r.records))
	for _, rec := range r.records {
		all = append(all, rec.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []forms.Record{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
