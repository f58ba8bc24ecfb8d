package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds the settings for a MinioStorage.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is the browser-accessible base, e.g. "http://localhost:9000/photos".
	// Defaults to <scheme>://<endpoint>/<bucket>.
	PublicBaseURL string
	PublicRead    bool
}

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
	publicRead bool

	policyMu  sync.Mutex
	policySet bool
}

// NewMinioStorage creates a MinIO client without touching the network; the
// bucket policy is applied by Probe or the first Put.
func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStorage{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: base,
		publicRead: cfg.PublicRead,
	}, nil
}

// Put streams in.Body to MinIO under in.Key. in.Size must be the exact byte
// count (-1 only if genuinely unknown; MinIO will buffer it). Public access
// comes from the bucket policy, not from a per-object ACL.
func (s *MinioStorage) Put(ctx context.Context, in PutInput) error {
	if err := s.ensurePublicRead(ctx); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, in.Key, in.Body, in.Size, minio.PutObjectOptions{
		ContentType:  in.ContentType,
		UserMetadata: in.Metadata,
	})
	if err != nil {
		return minioError("put object", err)
	}
	return nil
}

// List enumerates every object in the bucket.
func (s *MinioStorage) List(ctx context.Context) ([]Object, error) {
	objects := []Object{}
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, minioError("list objects", info.Err)
		}
		objects = append(objects, Object{
			Key:          info.Key,
			Size:         info.Size,
			ContentType:  info.ContentType,
			LastModified: info.LastModified,
			URL:          s.PublicURL(info.Key),
		})
	}
	return objects, nil
}

// Delete removes the object at key from the bucket.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return minioError("delete object", err)
	}
	return nil
}

// PublicURL returns the browser-accessible URL for the given key.
// For local MinIO: "http://localhost:9000/photos/1718000000000-cat.png"
func (s *MinioStorage) PublicURL(key string) string {
	return objectURL(s.publicBase, s.bucket, key)
}

// Probe lists buckets and, when uploads are public, grants anonymous GET on
// the bucket.
func (s *MinioStorage) Probe(ctx context.Context) error {
	if _, err := s.client.ListBuckets(ctx); err != nil {
		return minioError("list buckets", err)
	}
	return s.ensurePublicRead(ctx)
}

// ensurePublicRead applies the public-read bucket policy once it succeeds.
// Failures are not remembered, so the next call tries again.
func (s *MinioStorage) ensurePublicRead(ctx context.Context) error {
	if !s.publicRead {
		return nil
	}

	s.policyMu.Lock()
	defer s.policyMu.Unlock()
	if s.policySet {
		return nil
	}

	if err := s.client.SetBucketPolicy(ctx, s.bucket, publicReadPolicy(s.bucket)); err != nil {
		return minioError("set bucket policy", err)
	}
	s.policySet = true
	slog.Debug("storage: public-read policy applied", "bucket", s.bucket)
	return nil
}

func minioError(op string, err error) *BackendError {
	return &BackendError{Op: op, Message: minio.ToErrorResponse(err).Message, Err: err}
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{
			{
				"Effect":    "Allow",
				"Principal": map[string][]string{"AWS": {"*"}},
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
