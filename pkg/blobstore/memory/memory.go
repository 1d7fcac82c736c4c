// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytrix/bytrix-gw/pkg/blobstore"
)

func init() {
	blobstore.Providers.Register("memory", func(_ context.Context, _ map[string]string) (blobstore.BlobStore, error) {
		return New(), nil
	})
}

// compile-time check
var _ blobstore.BlobStore = (*Store)(nil)

type object struct {
	content     []byte
	contentType string
}

// Store is an in-memory blob store used in tests and local development.
// Signed URLs are synthetic but carry the key and expiry for assertions.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	mints   atomic.Int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{objects: make(map[string]object)}
}

// Put implements blobstore.BlobStore.
func (s *Store) Put(_ context.Context, key string, content []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(content))
	copy(buf, content)
	s.objects[key] = object{content: buf, contentType: contentType}
	return nil
}

// SignedURL implements blobstore.BlobStore.
func (s *Store) SignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("object %s: %w", key, blobstore.ErrObjectNotFound)
	}
	// The nonce guarantees every mint yields a distinct URL.
	return fmt.Sprintf("memory://%s?expires=%d&nonce=%d", key, int64(expiry.Seconds()), s.mints.Add(1)), nil
}

// Delete implements blobstore.BlobStore.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("object %s: %w", key, blobstore.ErrObjectNotFound)
	}
	delete(s.objects, key)
	return nil
}

// Close implements blobstore.BlobStore.
func (s *Store) Close(_ context.Context) error {
	return nil
}

// Content returns the stored bytes for a key. Test helper.
func (s *Store) Content(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return obj.content, true
}

// Len returns the number of stored objects. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
