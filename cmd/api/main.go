//	@title			Bucket Proxy API
//	@version		1.0
//	@description	Uploads, lists, and deletes images in an S3 bucket.
//
//	@host		localhost:3000
//	@BasePath	/

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/navidved/bucketproxy/internal/config"
	"github.com/navidved/bucketproxy/internal/files"
	"github.com/navidved/bucketproxy/internal/logging"
	appMiddleware "github.com/navidved/bucketproxy/internal/middleware"
	"github.com/navidved/bucketproxy/internal/storage"
	"github.com/navidved/bucketproxy/internal/upload"

	_ "github.com/navidved/bucketproxy/docs/swagger"
)

func main() {
	cfg := config.Load()
	logging.Setup(os.Stdout, cfg.IsProduction(), cfg.LogLevel)

	// Requests fail against the backend instead; keep serving.
	if err := cfg.Validate(); err != nil {
		slog.Warn("configuration incomplete", "error", err)
	}

	store, err := newStorage(context.Background(), cfg)
	if err != nil {
		slog.Error("object storage init failed", "error", err)
		os.Exit(1)
	}

	go probeStorage(store, cfg.StorageBucket)

	// Wire dependencies: storage → receiver → service → handler
	receiver := upload.NewReceiver(store, upload.Options{
		MaxBytes:        cfg.MaxUploadBytes,
		AllowedTypes:    cfg.AllowedMIMETypes,
		Key:             upload.KeyFuncFor(cfg.KeyScheme),
		SniffUndeclared: cfg.SniffContentType,
	})
	fileSvc := files.NewService(store, receiver)
	fileHandler := files.NewHandler(fileSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI: available at http://localhost:3000/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	fileHandler.Mount(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server running", "port", cfg.Port, "env", cfg.AppEnv, "driver", cfg.StorageDriver, "bucket", cfg.StorageBucket)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newStorage builds the configured storage driver. It does not contact the backend.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageDriver == config.DriverMinio {
		store, err := storage.NewMinioStorage(storage.MinioConfig{
			Endpoint:      cfg.StorageEndpoint,
			AccessKey:     cfg.StorageAccessKey,
			SecretKey:     cfg.StorageSecretKey,
			Region:        cfg.StorageRegion,
			Bucket:        cfg.StorageBucket,
			UseSSL:        cfg.StorageUseSSL,
			PublicBaseURL: cfg.PublicBaseURL,
			PublicRead:    cfg.PublicRead,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := storage.NewS3Storage(ctx, storage.S3Config{
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		Region:        cfg.StorageRegion,
		Bucket:        cfg.StorageBucket,
		Endpoint:      cfg.StorageEndpoint,
		PublicBaseURL: cfg.PublicBaseURL,
		PublicRead:    cfg.PublicRead,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// probeStorage logs whether the backend answers. The result never stops the server.
func probeStorage(store storage.Storage, bucket string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := store.Probe(ctx); err != nil {
		slog.Error("error connecting to object storage", "bucket", bucket, "error", err)
		return
	}
	slog.Info("successfully connected to object storage", "bucket", bucket)
}
