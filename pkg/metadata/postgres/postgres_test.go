// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/bytrix/bytrix-gw/pkg/metadata"
	"github.com/bytrix/bytrix-gw/pkg/metadata/metadatatest"
	"github.com/bytrix/bytrix-gw/pkg/metadata/postgres"
)

func TestPostgresConformance(t *testing.T) {
	dsn := os.Getenv("METADATA_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres conformance tests: METADATA_POSTGRES_DSN must be set")
	}

	metadatatest.RunConformanceTests(t, func(t *testing.T) metadata.Store {
		store, err := postgres.New(dsn)
		if err != nil {
			t.Fatalf("postgres.New: %v", err)
		}
		t.Cleanup(func() {
			// Conformance sub-tests assume an empty table.
			ctx := context.Background()
			recs, _ := store.ListByOwner(ctx, "u1")
			for _, r := range recs {
				_ = store.Delete(ctx, r.ID, r.OwnerID)
			}
			recs, _ = store.ListByOwner(ctx, "u2")
			for _, r := range recs {
				_ = store.Delete(ctx, r.ID, r.OwnerID)
			}
		})
		return store
	})
}
