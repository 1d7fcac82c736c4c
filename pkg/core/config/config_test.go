// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9090\nmetadata:\n  driver: sqlite\n  dsn: file:test.db\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Metadata.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Metadata.Driver)
	}
	if cfg.Endpoints.FilesBase != "/api/v1/files" {
		t.Errorf("files base = %q, want /api/v1/files", cfg.Endpoints.FilesBase)
	}
	if cfg.BlobStore.SignedURLExpiry != time.Hour {
		t.Errorf("signed url expiry = %v, want 1h", cfg.BlobStore.SignedURLExpiry)
	}
	if cfg.Uploads.MaxFileSize != 100*1024*1024 {
		t.Errorf("max file size = %d, want 100MB", cfg.Uploads.MaxFileSize)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("auth:\n  service_key: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SERVICE_KEY", "from-env")
	t.Setenv("SIGNED_URL_EXPIRY", "600")
	t.Setenv("API_BASE_PATH", "/v2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Auth.ServiceKey != "from-env" {
		t.Errorf("service key = %q, want env override", cfg.Auth.ServiceKey)
	}
	if cfg.BlobStore.SignedURLExpiry != 10*time.Minute {
		t.Errorf("signed url expiry = %v, want 10m", cfg.BlobStore.SignedURLExpiry)
	}
	if cfg.Endpoints.GPTBase != "/v2/gpt" {
		t.Errorf("gpt base = %q, want derived from API_BASE_PATH", cfg.Endpoints.GPTBase)
	}
}

func TestDefaultWithoutFile(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Completion.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q, want gpt-3.5-turbo", cfg.Completion.Model)
	}
	if cfg.Endpoints.DownloadBase != "/file" {
		t.Errorf("download base = %q, want /file", cfg.Endpoints.DownloadBase)
	}
}
