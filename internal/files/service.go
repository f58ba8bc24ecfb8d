// Package files exposes upload, listing, and deletion of bucket objects over HTTP.
package files

import (
	"context"
	"net/http"
	"time"

	"github.com/navidved/bucketproxy/internal/storage"
	"github.com/navidved/bucketproxy/internal/upload"
)

// File is one entry of the bucket listing.
type File struct {
	URL          string    `json:"url"          example:"https://photos.s3.amazonaws.com/1718000000000-photo.png"`
	Key          string    `json:"key"          example:"1718000000000-photo.png"`
	Size         int64     `json:"size"         example:"512000"`
	LastModified time.Time `json:"lastModified" example:"2024-06-10T06:13:20Z"`
}

// Receiver reads an upload from a request and stores it.
type Receiver interface {
	Receive(w http.ResponseWriter, r *http.Request) (upload.Result, error)
}

// Service contains the file operations behind the HTTP handlers.
type Service struct {
	store    storage.Storage
	receiver Receiver
}

// NewService creates a new file Service.
func NewService(store storage.Storage, receiver Receiver) *Service {
	return &Service{store: store, receiver: receiver}
}

// Upload stores the file carried by r.
func (s *Service) Upload(w http.ResponseWriter, r *http.Request) (upload.Result, error) {
	return s.receiver.Receive(w, r)
}

// List returns every object in the bucket, in backend order.
func (s *Service) List(ctx context.Context) ([]File, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(objects))
	for _, o := range objects {
		files = append(files, File{
			URL:          o.URL,
			Key:          o.Key,
			Size:         o.Size,
			LastModified: o.LastModified,
		})
	}
	return files, nil
}

// Delete removes key without checking that it exists.
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
