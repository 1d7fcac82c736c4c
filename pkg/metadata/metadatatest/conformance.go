// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package metadatatest provides a shared conformance test suite for
// metadata.Store implementations. Each backend should call
// RunConformanceTests from its own _test.go file.
package metadatatest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bytrix/bytrix-gw/pkg/metadata"
)

func rec(id, owner, filename, mimetype string, size int64, createdAt time.Time) *metadata.UploadRecord {
	return &metadata.UploadRecord{
		ID:         id,
		Filename:   filename,
		StorageKey: fmt.Sprintf("uploads/%s/%s", owner, id),
		MimeType:   mimetype,
		Size:       size,
		OwnerID:    owner,
		CreatedAt:  createdAt,
	}
}

// RunConformanceTests exercises a metadata.Store implementation against the
// shared contract. The newStore function is called once per sub-test to
// provide an isolated store instance.
func RunConformanceTests(t *testing.T, newStore func(t *testing.T) metadata.Store) {
	t.Helper()

	t.Run("InsertAndGet", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		created := time.Now().UTC().Truncate(time.Millisecond)
		r := rec("id-1", "u1", "report.pdf", "application/pdf", 2048, created)
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert: %v", err)
		}

		got, err := store.Get(ctx, "id-1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Filename != "report.pdf" || got.MimeType != "application/pdf" ||
			got.Size != 2048 || got.OwnerID != "u1" || got.StorageKey != r.StorageKey {
			t.Errorf("Get returned unexpected record: %+v", got)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())

		_, err := store.Get(context.Background(), "absent")
		if !errors.Is(err, metadata.ErrRecordNotFound) {
			t.Errorf("err = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("DeleteScopedToOwner", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		if err := store.Insert(ctx, rec("id-1", "u1", "a.txt", "text/plain", 10, time.Now().UTC())); err != nil {
			t.Fatalf("Insert: %v", err)
		}

		// Wrong owner must look identical to a missing record.
		if err := store.Delete(ctx, "id-1", "u2"); !errors.Is(err, metadata.ErrRecordNotFound) {
			t.Errorf("delete by wrong owner: err = %v, want ErrRecordNotFound", err)
		}
		if _, err := store.Get(ctx, "id-1"); err != nil {
			t.Errorf("record should survive wrong-owner delete: %v", err)
		}

		if err := store.Delete(ctx, "id-1", "u1"); err != nil {
			t.Errorf("delete by owner: %v", err)
		}
		if _, err := store.Get(ctx, "id-1"); !errors.Is(err, metadata.ErrRecordNotFound) {
			t.Errorf("after delete: err = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("ListByOwnerNewestFirst", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 3; i++ {
			r := rec(fmt.Sprintf("id-%d", i), "u1", fmt.Sprintf("f%d.txt", i), "text/plain", int64(i), base.Add(time.Duration(i)*time.Minute))
			if err := store.Insert(ctx, r); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}
		if err := store.Insert(ctx, rec("other", "u2", "x.txt", "text/plain", 1, base)); err != nil {
			t.Fatalf("Insert: %v", err)
		}

		recs, err := store.ListByOwner(ctx, "u1")
		if err != nil {
			t.Fatalf("ListByOwner: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("got %d records, want 3", len(recs))
		}
		for i, want := range []string{"id-2", "id-1", "id-0"} {
			if recs[i].ID != want {
				t.Errorf("recs[%d].ID = %q, want %q", i, recs[i].ID, want)
			}
		}
	})

	t.Run("QueryFilters", func(t *testing.T) {
		store := newStore(t)
		defer store.Close(context.Background())
		ctx := context.Background()

		base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		seed := []*metadata.UploadRecord{
			rec("a", "u1", "Quarterly-Report.pdf", "application/pdf", 5000, base),
			rec("b", "u1", "notes.txt", "text/plain", 100, base.Add(24*time.Hour)),
			rec("c", "u1", "photo.png", "image/png", 90000, base.Add(48*time.Hour)),
		}
		for _, r := range seed {
			if err := store.Insert(ctx, r); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}

		sizeMin := int64(1000)
		sizeMax := int64(10000)
		after := base.Add(12 * time.Hour)

		cases := []struct {
			name   string
			filter metadata.Filter
			want   []string
		}{
			{"filename substring case-insensitive", metadata.Filter{Filename: "report"}, []string{"a"}},
			{"mimetype exact", metadata.Filter{MimeType: "text/plain"}, []string{"b"}},
			{"size range", metadata.Filter{SizeMin: &sizeMin, SizeMax: &sizeMax}, []string{"a"}},
			{"after date", metadata.Filter{AfterDate: &after}, []string{"c", "b"}},
			{"no match", metadata.Filter{Filename: "zzz"}, nil},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				recs, err := store.Query(ctx, "u1", tc.filter)
				if err != nil {
					t.Fatalf("Query: %v", err)
				}
				if len(recs) != len(tc.want) {
					t.Fatalf("got %d records, want %d", len(recs), len(tc.want))
				}
				for i, id := range tc.want {
					if recs[i].ID != id {
						t.Errorf("recs[%d].ID = %q, want %q", i, recs[i].ID, id)
					}
				}
			})
		}
	})
}
