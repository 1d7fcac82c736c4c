// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package blobstore defines the object store collaborator: raw bytes in,
// time-limited retrieval URLs out. The gateway never serves object content
// itself.
package blobstore

import (
	"context"
	"errors"
	"time"

	"github.com/bytrix/bytrix-gw/pkg/provider"
)

// ErrObjectNotFound is returned when a key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Providers is the registry of blob store backend implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/bytrix/bytrix-gw/pkg/blobstore/memory"
//	import _ "github.com/bytrix/bytrix-gw/pkg/blobstore/s3"
var Providers = provider.NewRegistry[BlobStore]("blob_store")

// BlobStore is the interface the file service needs from object storage.
type BlobStore interface {
	// Put writes an object under key with the given content type.
	Put(ctx context.Context, key string, content []byte, contentType string) error

	// SignedURL returns a time-limited URL granting direct read access to
	// the object. The URL value may differ between calls for the same key.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Delete removes the object. Deleting a missing key returns
	// ErrObjectNotFound.
	Delete(ctx context.Context, key string) error

	Close(ctx context.Context) error
}
