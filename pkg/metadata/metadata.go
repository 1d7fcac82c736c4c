// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package metadata defines the relational metadata store collaborator:
// one UploadRecord row per stored object, owner-scoped queries with
// filter predicates.
package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/bytrix/bytrix-gw/pkg/provider"
)

// ErrRecordNotFound is returned when an upload record does not exist.
var ErrRecordNotFound = errors.New("upload record not found")

// Providers is the registry of metadata store backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/bytrix/bytrix-gw/pkg/metadata/memory"
//	import _ "github.com/bytrix/bytrix-gw/pkg/metadata/postgres"
//	import _ "github.com/bytrix/bytrix-gw/pkg/metadata/sqlite"
var Providers = provider.NewRegistry[Store]("metadata_store")

// UploadRecord describes one stored file.
type UploadRecord struct {
	ID         string
	Filename   string
	StorageKey string
	MimeType   string
	Size       int64
	OwnerID    string
	CreatedAt  time.Time
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	Filename  string     // substring match, case-insensitive
	MimeType  string     // exact match
	SizeMin   *int64     // inclusive
	SizeMax   *int64     // inclusive
	AfterDate *time.Time // created at or after
}

// Store is the interface the file service needs from the metadata store.
// All list results are ordered newest-first.
type Store interface {
	Insert(ctx context.Context, rec *UploadRecord) error

	// Get returns the record regardless of owner; ownership checks are
	// the service layer's concern.
	Get(ctx context.Context, id string) (*UploadRecord, error)

	// Delete removes the record if it exists and belongs to ownerID.
	// Both a missing id and an owner mismatch return ErrRecordNotFound.
	Delete(ctx context.Context, id, ownerID string) error

	ListByOwner(ctx context.Context, ownerID string) ([]*UploadRecord, error)

	Query(ctx context.Context, ownerID string, f Filter) ([]*UploadRecord, error)

	Close(ctx context.Context) error
}
