// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bytrix/bytrix-gw/pkg/metadata"
)

func init() {
	metadata.Providers.Register("memory", func(_ context.Context, _ map[string]string) (metadata.Store, error) {
		return New(), nil
	})
}

// compile-time check
var _ metadata.Store = (*Store)(nil)

// Store is an in-memory metadata store used in tests.
type Store struct {
	mu      sync.RWMutex
	records map[string]*metadata.UploadRecord
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]*metadata.UploadRecord)}
}

// Insert implements metadata.Store.
func (s *Store) Insert(_ context.Context, rec *metadata.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("upload %s already exists", rec.ID)
	}
	clone := *rec
	s.records[rec.ID] = &clone
	return nil
}

// Get implements metadata.Store.
func (s *Store) Get(_ context.Context, id string) (*metadata.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("upload %s: %w", id, metadata.ErrRecordNotFound)
	}
	clone := *rec
	return &clone, nil
}

// Delete implements metadata.Store.
func (s *Store) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.OwnerID != ownerID {
		return fmt.Errorf("upload %s: %w", id, metadata.ErrRecordNotFound)
	}
	delete(s.records, id)
	return nil
}

// ListByOwner implements metadata.Store.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]*metadata.UploadRecord, error) {
	return s.Query(ctx, ownerID, metadata.Filter{})
}

// Query implements metadata.Store.
func (s *Store) Query(_ context.Context, ownerID string, f metadata.Filter) ([]*metadata.UploadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []*metadata.UploadRecord
	for _, rec := range s.records {
		if rec.OwnerID != ownerID {
			continue
		}
		if f.Filename != "" && !strings.Contains(strings.ToLower(rec.Filename), strings.ToLower(f.Filename)) {
			continue
		}
		if f.MimeType != "" && rec.MimeType != f.MimeType {
			continue
		}
		if f.SizeMin != nil && rec.Size < *f.SizeMin {
			continue
		}
		if f.SizeMax != nil && rec.Size > *f.SizeMax {
			continue
		}
		if f.AfterDate != nil && rec.CreatedAt.Before(*f.AfterDate) {
			continue
		}
		clone := *rec
		recs = append(recs, &clone)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

// Close implements metadata.Store.
func (s *Store) Close(_ context.Context) error {
	return nil
}
