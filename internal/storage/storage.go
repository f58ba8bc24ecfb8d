// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup:
// S3Storage talks to AWS S3, MinioStorage to any S3-compatible provider.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Object describes one stored object in the bucket.
type Object struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	URL          string
}

// PutInput holds the parameters for writing one object.
type PutInput struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// Storage is the interface for writing, enumerating, and removing objects.
type Storage interface {
	// Put streams in.Body to the bucket under in.Key.
	Put(ctx context.Context, in PutInput) error
	// List returns the bucket contents in backend order from a single listing call.
	List(ctx context.Context) ([]Object, error)
	// Delete removes the object at key. Missing keys are not an error unless the backend says so.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
	// Probe checks that the backend is reachable with the configured credentials.
	Probe(ctx context.Context) error
}

// BackendError wraps any failure reported by the storage backend.
// Error returns the backend's own message so it can be shown to callers as-is.
type BackendError struct {
	Op      string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// String includes the operation, for logs.
func (e *BackendError) String() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Error())
}

// objectURL joins key onto base, or onto the virtual-hosted S3 address of
// bucket when base is empty.
func objectURL(base, bucket, key string) string {
	if base == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
	return strings.TrimRight(base, "/") + "/" + key
}
