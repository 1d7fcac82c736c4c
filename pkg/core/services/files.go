// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package services implements the domain logic of the gateway: file upload
// and retrieval on top of the blob and metadata stores, and text generation
// on top of the completion client.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bytrix/bytrix-gw/pkg/blobstore"
	"github.com/bytrix/bytrix-gw/pkg/core/apperror"
	"github.com/bytrix/bytrix-gw/pkg/core/auth"
	"github.com/bytrix/bytrix-gw/pkg/core/schema"
	"github.com/bytrix/bytrix-gw/pkg/metadata"
	"github.com/bytrix/bytrix-gw/pkg/observability/logging"
)

// FileServiceOptions carries the URL and limit configuration for FileService.
type FileServiceOptions struct {
	// PublicBaseURL is the externally visible origin, e.g. "https://api.bytrix.io".
	PublicBaseURL string
	// DownloadBasePath is the vanity retrieval path prefix, e.g. "/file".
	DownloadBasePath string
	// MaxFileSize rejects uploads larger than this many bytes. Zero disables
	// the check.
	MaxFileSize int64
	// SignedURLExpiry is the lifetime of minted download URLs.
	SignedURLExpiry time.Duration
}

// FileService coordinates uploads across the blob store and the metadata
// store, and serves ownership-scoped file actions.
type FileService struct {
	blobs  blobstore.BlobStore
	meta   metadata.Store
	logger *logging.Logger
	opts   FileServiceOptions
}

// NewFileService creates a FileService.
func NewFileService(blobs blobstore.BlobStore, meta metadata.Store, logger *logging.Logger, opts FileServiceOptions) *FileService {
	if opts.SignedURLExpiry <= 0 {
		opts.SignedURLExpiry = time.Hour
	}
	return &FileService{
		blobs:  blobs,
		meta:   meta,
		logger: logger,
		opts:   opts,
	}
}

// Upload stores the file content under a fresh UUID key, records its
// metadata, and returns the public retrieval URL.
//
// The two writes are not transactional: if the metadata insert fails after
// the blob write succeeded, the orphaned object is logged and left for an
// out-of-band sweep.
func (s *FileService) Upload(ctx context.Context, ownerID, filename, mimeType string, content []byte) (*schema.UploadResult, error) {
	if len(content) == 0 {
		return nil, apperror.Validation("File is required", map[string]string{"file": "No file provided"})
	}
	size := int64(len(content))
	if s.opts.MaxFileSize > 0 && size > s.opts.MaxFileSize {
		return nil, apperror.Validation("File too large", map[string]string{
			"file": fmt.Sprintf("File exceeds the maximum size of %d bytes", s.opts.MaxFileSize),
		})
	}

	fileID := uuid.NewString()
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "bin"
	}
	key := fmt.Sprintf("uploads/%s/%s.%s", ownerID, fileID, ext)

	s.logger.Debug("starting file upload", "file_id", fileID, "storage_key", key, "size", size)

	if err := s.blobs.Put(ctx, key, content, mimeType); err != nil {
		return nil, apperror.Storage("Failed to upload file to storage", err)
	}

	record := &metadata.UploadRecord{
		ID:         fileID,
		Filename:   filename,
		StorageKey: key,
		MimeType:   mimeType,
		Size:       size,
		OwnerID:    ownerID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.meta.Insert(ctx, record); err != nil {
		s.logger.Warn("metadata insert failed after blob write, object orphaned",
			"file_id", fileID, "storage_key", key, "error", err)
		return nil, apperror.Metadata("Failed to save upload metadata", err)
	}

	s.logger.Info("file uploaded successfully", "upload_id", fileID, "owner_id", ownerID)

	return &schema.UploadResult{
		ID:       fileID,
		Filename: filename,
		Size:     size,
		MimeType: mimeType,
		URL:      s.opts.PublicBaseURL + s.opts.DownloadBasePath + "/" + fileID,
	}, nil
}

// Get returns the file's metadata with a freshly minted signed download URL.
// Every call produces a new URL; nothing about the stored object changes.
func (s *FileService) Get(ctx context.Context, fileID string) (*schema.FileDetails, error) {
	record, err := s.getRecord(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, record)
}

// ActionGet is the get action: like Get, but scoped to the caller's files
// unless the caller holds the service role.
func (s *FileService) ActionGet(ctx context.Context, principal *auth.Principal, fileID string) (*schema.FileDetails, error) {
	record, err := s.getOwnedRecord(ctx, principal, fileID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, record)
}

// ActionDelete removes the file's metadata row, scoped to the caller's files
// unless the caller holds the service role. The stored object itself is left
// for an out-of-band sweep.
func (s *FileService) ActionDelete(ctx context.Context, principal *auth.Principal, fileID string) error {
	record, err := s.getOwnedRecord(ctx, principal, fileID)
	if err != nil {
		return err
	}

	if err := s.meta.Delete(ctx, record.ID, record.OwnerID); err != nil {
		if errors.Is(err, metadata.ErrRecordNotFound) {
			return apperror.NotFound("File not found or access denied")
		}
		return apperror.Metadata("Failed to delete upload metadata", err)
	}

	s.logger.Info("file deleted successfully", "file_id", fileID)
	return nil
}

// ActionInfo returns the detailed view of a file, scoped to the caller's
// files unless the caller holds the service role.
func (s *FileService) ActionInfo(ctx context.Context, principal *auth.Principal, fileID string) (*schema.FileInfo, error) {
	record, err := s.getOwnedRecord(ctx, principal, fileID)
	if err != nil {
		return nil, err
	}

	return &schema.FileInfo{
		ID:           record.ID,
		Filename:     record.Filename,
		MimeType:     record.MimeType,
		Size:         record.Size,
		SizeReadable: formatBytes(record.Size),
		CreatedAt:    record.CreatedAt.Format(time.RFC3339),
		StorageKey:   record.StorageKey,
		FileType:     fileTypeOf(record.MimeType),
	}, nil
}

// List returns all of the owner's files, newest first.
func (s *FileService) List(ctx context.Context, ownerID string) ([]schema.FileSummary, error) {
	records, err := s.meta.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.Metadata("Failed to list uploads", err)
	}
	return summaries(records), nil
}

// Query returns the owner's files matching the filter, newest first.
func (s *FileService) Query(ctx context.Context, ownerID string, filter metadata.Filter) ([]schema.FileSummary, error) {
	records, err := s.meta.Query(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Metadata("Failed to query uploads", err)
	}
	return summaries(records), nil
}

func (s *FileService) getRecord(ctx context.Context, fileID string) (*metadata.UploadRecord, error) {
	record, err := s.meta.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, metadata.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("File with ID %s not found", fileID))
		}
		return nil, apperror.Metadata("Failed to fetch upload metadata", err)
	}
	return record, nil
}

// getOwnedRecord fetches a record and enforces ownership. A file owned by
// someone else is reported exactly like a missing one, message included.
func (s *FileService) getOwnedRecord(ctx context.Context, principal *auth.Principal, fileID string) (*metadata.UploadRecord, error) {
	record, err := s.meta.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, metadata.ErrRecordNotFound) {
			return nil, apperror.NotFound("File not found or access denied")
		}
		return nil, apperror.Metadata("Failed to fetch upload metadata", err)
	}
	if !principal.IsService() && record.OwnerID != principal.ID {
		return nil, apperror.NotFound("File not found or access denied")
	}
	return record, nil
}

func (s *FileService) details(ctx context.Context, record *metadata.UploadRecord) (*schema.FileDetails, error) {
	signedURL, err := s.blobs.SignedURL(ctx, record.StorageKey, s.opts.SignedURLExpiry)
	if err != nil {
		return nil, apperror.Storage("Failed to generate signed URL", err)
	}

	return &schema.FileDetails{
		ID:         record.ID,
		Filename:   record.Filename,
		MimeType:   record.MimeType,
		Size:       record.Size,
		CreatedAt:  record.CreatedAt.Format(time.RFC3339),
		StorageKey: record.StorageKey,
		SignedURL:  signedURL,
		ExpiresIn:  int64(s.opts.SignedURLExpiry.Seconds()),
	}, nil
}

func summaries(records []*metadata.UploadRecord) []schema.FileSummary {
	out := make([]schema.FileSummary, 0, len(records))
	for _, r := range records {
		out = append(out, schema.FileSummary{
			ID:        r.ID,
			Filename:  r.Filename,
			MimeType:  r.MimeType,
			Size:      r.Size,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// formatBytes renders a byte count as a human-readable size with up to two
// decimal places, e.g. "2.5 KB".
func formatBytes(size int64) string {
	if size == 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	i := int(math.Floor(math.Log(float64(size)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}

	value := math.Round(float64(size)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[i]
}

// fileTypeOf maps a MIME type to a coarse file category.
func fileTypeOf(mimetype string) string {
	switch {
	case mimetype == "":
		return "unknown"
	case strings.HasPrefix(mimetype, "image/"):
		return "image"
	case strings.HasPrefix(mimetype, "video/"):
		return "video"
	case strings.HasPrefix(mimetype, "audio/"):
		return "audio"
	case strings.HasPrefix(mimetype, "text/"):
		return "text"
	case strings.Contains(mimetype, "pdf"):
		return "pdf"
	case strings.Contains(mimetype, "word"), strings.Contains(mimetype, "document"):
		return "document"
	case strings.Contains(mimetype, "sheet"), strings.Contains(mimetype, "spreadsheet"):
		return "spreadsheet"
	case strings.Contains(mimetype, "presentation"), strings.Contains(mimetype, "slide"):
		return "presentation"
	case strings.Contains(mimetype, "zip"), strings.Contains(mimetype, "archive"):
		return "archive"
	default:
		return "file"
	}
}
