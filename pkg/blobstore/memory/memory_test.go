// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bytrix/bytrix-gw/pkg/blobstore"
)

func TestPutAndSignedURL(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Put(ctx, "uploads/u1/a.txt", []byte("hello"), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	url1, err := store.SignedURL(ctx, "uploads/u1/a.txt", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if !strings.Contains(url1, "uploads/u1/a.txt") {
		t.Errorf("url %q does not reference the key", url1)
	}
	if !strings.Contains(url1, "expires=3600") {
		t.Errorf("url %q does not carry the expiry", url1)
	}

	// A fresh URL is minted per call.
	url2, err := store.SignedURL(ctx, "uploads/u1/a.txt", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if url1 == url2 {
		t.Error("expected distinct URLs across calls")
	}
}

func TestSignedURLMissingKey(t *testing.T) {
	store := New()
	_, err := store.SignedURL(context.Background(), "nope", time.Hour)
	if !errors.Is(err, blobstore.ErrObjectNotFound) {
		t.Errorf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Put(ctx, "k", []byte("x"), ""); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "k"); !errors.Is(err, blobstore.ErrObjectNotFound) {
		t.Errorf("second delete err = %v, want ErrObjectNotFound", err)
	}
}

func TestPutCopiesContent(t *testing.T) {
	store := New()
	buf := []byte("mutable")
	if err := store.Put(context.Background(), "k", buf, ""); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'

	got, ok := store.Content("k")
	if !ok {
		t.Fatal("object missing")
	}
	if string(got) != "mutable" {
		t.Errorf("stored content mutated: %q", got)
	}
}
