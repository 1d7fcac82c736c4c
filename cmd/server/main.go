// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	httpAdapter "github.com/bytrix/bytrix-gw/pkg/adapters/http"
	"github.com/bytrix/bytrix-gw/pkg/blobstore"
	"github.com/bytrix/bytrix-gw/pkg/core/api"
	"github.com/bytrix/bytrix-gw/pkg/core/auth"
	"github.com/bytrix/bytrix-gw/pkg/core/config"
	"github.com/bytrix/bytrix-gw/pkg/core/services"
	"github.com/bytrix/bytrix-gw/pkg/metadata"
	"github.com/bytrix/bytrix-gw/pkg/observability/logging"

	// Backend registrations
	_ "github.com/bytrix/bytrix-gw/pkg/blobstore/memory"
	_ "github.com/bytrix/bytrix-gw/pkg/blobstore/s3"
	_ "github.com/bytrix/bytrix-gw/pkg/metadata/memory"
	_ "github.com/bytrix/bytrix-gw/pkg/metadata/postgres"
	_ "github.com/bytrix/bytrix-gw/pkg/metadata/sqlite"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 0, "HTTP port to listen on (overrides config)")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("Bytrix Gateway Server\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	bootLogger := logging.New(logging.Config{Level: "info", Format: "json"})

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.Info("Starting Bytrix Gateway Server",
		"version", Version,
		"build_time", BuildTime)

	ctx := context.Background()

	// Blob store backend
	blobs, err := blobstore.Providers.New(ctx, cfg.BlobStore.Type, map[string]string{
		"bucket":     cfg.BlobStore.Bucket,
		"region":     cfg.BlobStore.Region,
		"endpoint":   cfg.BlobStore.Endpoint,
		"access_key": cfg.BlobStore.AccessKey,
		"secret_key": cfg.BlobStore.SecretKey,
	})
	if err != nil {
		logger.Error("Failed to initialize blob store", "type", cfg.BlobStore.Type, "error", err)
		os.Exit(1)
	}
	defer blobs.Close(context.Background())
	logger.Info("Initialized blob store", "type", cfg.BlobStore.Type, "bucket", cfg.BlobStore.Bucket)

	// Metadata store backend
	meta, err := metadata.Providers.New(ctx, cfg.Metadata.Driver, map[string]string{
		"dsn": cfg.Metadata.DSN,
	})
	if err != nil {
		logger.Error("Failed to initialize metadata store", "driver", cfg.Metadata.Driver, "error", err)
		os.Exit(1)
	}
	defer meta.Close(context.Background())
	logger.Info("Initialized metadata store", "driver", cfg.Metadata.Driver)

	// Credential resolution chain, in priority order. Only configured
	// schemes join the chain.
	var verifiers []auth.Verifier
	if cfg.Auth.ServiceKey != "" {
		verifiers = append(verifiers, auth.NewServiceKeyVerifier(cfg.Auth.ServiceKey))
	}
	if cfg.Auth.IdentityEndpoint != "" {
		client := auth.NewHTTPIdentityClient(cfg.Auth.IdentityEndpoint, cfg.Auth.IdentityAPIKey, cfg.Auth.IdentityTimeout)
		verifiers = append(verifiers, auth.NewIdentityVerifier(client))
	}
	if cfg.Auth.JWTSecret != "" {
		verifiers = append(verifiers, auth.NewLocalTokenVerifier(cfg.Auth.JWTSecret))
	}
	if len(verifiers) == 0 {
		logger.Error("No authentication scheme configured; set auth.service_key, auth.identity_endpoint or auth.jwt_secret")
		os.Exit(1)
	}
	resolver := auth.NewResolver(logger, verifiers...)
	logger.Info("Initialized credential resolver", "schemes", len(verifiers))

	// Completion client
	completionClient := api.NewOpenAIClient(cfg.Completion.Endpoint, cfg.Completion.APIKey, cfg.Completion.Timeout)
	logger.Info("Initialized completion client", "endpoint", cfg.Completion.Endpoint, "model", cfg.Completion.Model)

	// Domain services
	fileService := services.NewFileService(blobs, meta, logger, services.FileServiceOptions{
		PublicBaseURL:    cfg.Server.PublicBaseURL,
		DownloadBasePath: cfg.Endpoints.DownloadBase,
		MaxFileSize:      cfg.Uploads.MaxFileSize,
		SignedURLExpiry:  cfg.BlobStore.SignedURLExpiry,
	})
	generationService := services.NewGenerationService(completionClient, logger, services.GenerationOptions{
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		MaxTokens:   cfg.Completion.MaxTokens,
	})

	// HTTP adapter
	handler := httpAdapter.New(logger, resolver, fileService, generationService, httpAdapter.Options{
		APIBasePath:      cfg.Endpoints.APIBase,
		FilesBasePath:    cfg.Endpoints.FilesBase,
		GPTBasePath:      cfg.Endpoints.GPTBase,
		DownloadBasePath: cfg.Endpoints.DownloadBase,
		MaxFileSize:      cfg.Uploads.MaxFileSize,
	})
	logger.Info("Initialized HTTP adapter", "api_base", cfg.Endpoints.APIBase)

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-runCtx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
