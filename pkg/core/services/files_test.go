// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blobmem "github.com/bytrix/bytrix-gw/pkg/blobstore/memory"
	"github.com/bytrix/bytrix-gw/pkg/core/apperror"
	"github.com/bytrix/bytrix-gw/pkg/core/auth"
	"github.com/bytrix/bytrix-gw/pkg/metadata"
	metamem "github.com/bytrix/bytrix-gw/pkg/metadata/memory"
	"github.com/bytrix/bytrix-gw/pkg/observability/logging"
)

func newFileService(t *testing.T, opts FileServiceOptions) (*FileService, *blobmem.Store, *metamem.Store) {
	t.Helper()
	blobs := blobmem.New()
	meta := metamem.New()
	return NewFileService(blobs, meta, logging.Discard(), opts), blobs, meta
}

func userPrincipal(id string) *auth.Principal {
	return &auth.Principal{ID: id, Role: auth.RoleAuthenticated}
}

func TestUpload(t *testing.T) {
	svc, blobs, meta := newFileService(t, FileServiceOptions{
		PublicBaseURL:    "https://api.example.com",
		DownloadBasePath: "/file",
	})
	ctx := context.Background()

	result, err := svc.Upload(ctx, "user-1", "a.txt", "text/plain", []byte("0123456789"))
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "a.txt", result.Filename)
	assert.Equal(t, int64(10), result.Size)
	assert.Equal(t, "text/plain", result.MimeType)
	assert.Equal(t, "https://api.example.com/file/"+result.ID, result.URL)

	// Content lands under the derived storage key.
	key := fmt.Sprintf("uploads/user-1/%s.txt", result.ID)
	content, ok := blobs.Content(key)
	require.True(t, ok, "blob missing under key %s", key)
	assert.Equal(t, []byte("0123456789"), content)

	record, err := meta.Get(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", record.OwnerID)
	assert.Equal(t, key, record.StorageKey)
}

func TestUploadExtensionFallback(t *testing.T) {
	svc, blobs, _ := newFileService(t, FileServiceOptions{})

	result, err := svc.Upload(context.Background(), "u", "README", "application/octet-stream", []byte("x"))
	require.NoError(t, err)

	_, ok := blobs.Content(fmt.Sprintf("uploads/u/%s.bin", result.ID))
	assert.True(t, ok, "extensionless upload should use .bin")
}

func TestUploadEmptyFile(t *testing.T) {
	svc, _, _ := newFileService(t, FileServiceOptions{})

	_, err := svc.Upload(context.Background(), "u", "a.txt", "text/plain", nil)
	appErr := apperror.From(err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "file")
}

func TestUploadTooLarge(t *testing.T) {
	svc, blobs, _ := newFileService(t, FileServiceOptions{MaxFileSize: 4})

	_, err := svc.Upload(context.Background(), "u", "a.txt", "text/plain", []byte("12345"))
	appErr := apperror.From(err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 0, blobs.Len(), "oversized upload must not reach the blob store")
}

func TestUploadMetadataFailureLeavesBlob(t *testing.T) {
	blobs := blobmem.New()
	svc := NewFileService(blobs, failingMetaStore{}, logging.Discard(), FileServiceOptions{})

	_, err := svc.Upload(context.Background(), "u", "a.txt", "text/plain", []byte("x"))
	appErr := apperror.From(err)
	assert.Equal(t, apperror.CodeMetadata, appErr.Code)
	// No compensating delete: the object stays for an out-of-band sweep.
	assert.Equal(t, 1, blobs.Len())
}

func TestGetMintsFreshSignedURL(t *testing.T) {
	svc, _, _ := newFileService(t, FileServiceOptions{SignedURLExpiry: time.Hour})
	ctx := context.Background()

	uploaded, err := svc.Upload(ctx, "u", "a.txt", "text/plain", []byte("hi"))
	require.NoError(t, err)

	first, err := svc.Get(ctx, uploaded.ID)
	require.NoError(t, err)
	second, err := svc.Get(ctx, uploaded.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(3600), first.ExpiresIn)
	assert.NotEmpty(t, first.SignedURL)
	assert.NotEqual(t, first.SignedURL, second.SignedURL, "each retrieval mints a distinct URL")
	assert.Equal(t, first.StorageKey, second.StorageKey)
}

func TestGetMissing(t *testing.T) {
	svc, _, _ := newFileService(t, FileServiceOptions{})

	_, err := svc.Get(context.Background(), "nope")
	appErr := apperror.From(err)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	assert.Contains(t, appErr.Message, "nope")
}

func TestActionOwnershipScoping(t *testing.T) {
	svc, _, _ := newFileService(t, FileServiceOptions{})
	ctx := context.Background()

	uploaded, err := svc.Upload(ctx, "owner", "secret.pdf", "application/pdf", []byte("pdf"))
	require.NoError(t, err)

	stranger := userPrincipal("stranger")
	owner := userPrincipal("owner")
	service := &auth.Principal{ID: auth.ServicePrincipalID, Role: auth.RoleService}

	// A stranger sees exactly what they would see for a nonexistent file.
	_, getErr := svc.ActionGet(ctx, stranger, uploaded.ID)
	_, infoErr := svc.ActionInfo(ctx, stranger, uploaded.ID)
	delErr := svc.ActionDelete(ctx, stranger, uploaded.ID)
	for _, err := range []error{getErr, infoErr, delErr} {
		appErr := apperror.From(err)
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
		assert.Equal(t, "File not found or access denied", appErr.Message)
	}

	// An ID that does not exist yields the identical error, so the two
	// cases cannot be told apart by message text either.
	_, missErr := svc.ActionGet(ctx, stranger, uuid.NewString())
	missAppErr := apperror.From(missErr)
	assert.Equal(t, apperror.CodeNotFound, missAppErr.Code)
	assert.Equal(t, apperror.From(getErr).Message, missAppErr.Message)

	// The owner and the service role both get through.
	_, err = svc.ActionGet(ctx, owner, uploaded.ID)
	assert.NoError(t, err)
	_, err = svc.ActionGet(ctx, service, uploaded.ID)
	assert.NoError(t, err)
}

func TestActionDelete(t *testing.T) {
	svc, blobs, _ := newFileService(t, FileServiceOptions{})
	ctx := context.Background()

	uploaded, err := svc.Upload(ctx, "owner", "a.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, svc.ActionDelete(ctx, userPrincipal("owner"), uploaded.ID))

	_, err = svc.Get(ctx, uploaded.ID)
	assert.Equal(t, apperror.CodeNotFound, apperror.From(err).Code)
	// Blob cleanup is deferred.
	assert.Equal(t, 1, blobs.Len())
}

func TestActionInfo(t *testing.T) {
	svc, _, _ := newFileService(t, FileServiceOptions{})
	ctx := context.Background()

	uploaded, err := svc.Upload(ctx, "owner", "report.pdf", "application/pdf", make([]byte, 2560))
	require.NoError(t, err)

	info, err := svc.ActionInfo(ctx, userPrincipal("owner"), uploaded.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.5 KB", info.SizeReadable)
	assert.Equal(t, "pdf", info.FileType)
	assert.True(t, strings.HasSuffix(info.StorageKey, ".pdf"))
}

func TestListAndQuery(t *testing.T) {
	svc, _, _ := newFileService(t, FileServiceOptions{})
	ctx := context.Background()

	_, err := svc.Upload(ctx, "u1", "notes.txt", "text/plain", []byte("notes"))
	require.NoError(t, err)
	pdf, err := svc.Upload(ctx, "u1", "Report.pdf", "application/pdf", []byte("pdfpdf"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "u2", "other.txt", "text/plain", []byte("x"))
	require.NoError(t, err)

	listed, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	matched, err := svc.Query(ctx, "u1", metadata.Filter{Filename: "report"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, pdf.ID, matched[0].ID)
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{2560, "2.5 KB"},
		{1048576, "1 MB"},
		{1572864, "1.5 MB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatBytes(tc.size), "size %d", tc.size)
	}
}

func TestFileTypeOf(t *testing.T) {
	cases := map[string]string{
		"":                     "unknown",
		"image/png":            "image",
		"video/mp4":            "video",
		"audio/mpeg":           "audio",
		"text/csv":             "text",
		"application/pdf":      "pdf",
		"application/msword":   "document",
		"application/zip":      "archive",
		"application/x-my-app": "file",
	}
	for mimetype, want := range cases {
		assert.Equal(t, want, fileTypeOf(mimetype), "mimetype %q", mimetype)
	}
}

// failingMetaStore fails every write, for exercising the orphaned-blob path.
type failingMetaStore struct{}

func (failingMetaStore) Insert(context.Context, *metadata.UploadRecord) error {
	return errors.New("insert failed")
}

func (failingMetaStore) Get(context.Context, string) (*metadata.UploadRecord, error) {
	return nil, metadata.ErrRecordNotFound
}

func (failingMetaStore) Delete(context.Context, string, string) error {
	return errors.New("delete failed")
}

func (failingMetaStore) ListByOwner(context.Context, string) ([]*metadata.UploadRecord, error) {
	return nil, errors.New("list failed")
}

func (failingMetaStore) Query(context.Context, string, metadata.Filter) ([]*metadata.UploadRecord, error) {
	return nil, errors.New("query failed")
}

func (failingMetaStore) Close(context.Context) error { return nil }
