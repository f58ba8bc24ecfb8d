// Package upload turns a multipart request body into one stored object.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/navidved/bucketproxy/internal/storage"
)

const (
	_  = iota             // 0
	KB = 1 << (10 * iota) // 1 << 10 = 1024
	MB                    // 1 << 20 = 1,048,576
)

// multipartOverhead is the slack allowed on top of MaxBytes for part headers,
// boundaries, and small form fields.
const multipartOverhead = 1 * MB

// MaxFileBytes is the largest file a Receiver accepts: the S3 limit for a
// single PUT.
const MaxFileBytes = 5 << 30

// DefaultFieldName is the form field the file is expected under.
const DefaultFieldName = "file"

// undeclaredType is the type given to file parts that carry no Content-Type.
const undeclaredType = "application/octet-stream"

// Options configures a Receiver.
type Options struct {
	MaxBytes     int64
	AllowedTypes []string
	FieldName    string
	Key          KeyFunc
	Now          func() time.Time
	// SniffUndeclared detects the type of parts sent without a Content-Type
	// instead of treating them as application/octet-stream.
	SniffUndeclared bool
}

// Result describes the object created by a successful upload.
type Result struct {
	Location string `json:"location" example:"https://photos.s3.amazonaws.com/1718000000000-photo.png"`
	Key      string `json:"key"      example:"1718000000000-photo.png"`
	Size     int64  `json:"size"     example:"512000"`
	MIMEType string `json:"mimetype" example:"image/png"`
}

// Receiver validates a single-file multipart upload and writes it to storage.
type Receiver struct {
	store   storage.Storage
	opts    Options
	allowed map[string]bool
}

// NewReceiver creates a Receiver. A zero MaxBytes means 10 MiB and anything
// above MaxFileBytes is clamped. Other zero-valued options fall back to the
// "file" field, TimestampKey and time.Now.
func NewReceiver(store storage.Storage, opts Options) *Receiver {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 * MB
	}
	if opts.MaxBytes > MaxFileBytes {
		opts.MaxBytes = MaxFileBytes
	}
	if opts.FieldName == "" {
		opts.FieldName = DefaultFieldName
	}
	if opts.Key == nil {
		opts.Key = TimestampKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	allowed := make(map[string]bool, len(opts.AllowedTypes))
	for _, t := range opts.AllowedTypes {
		allowed[normalizeType(t)] = true
	}

	return &Receiver{store: store, opts: opts, allowed: allowed}
}

type filePart struct {
	name        string
	contentType string
	data        []byte
}

// Receive reads the whole body, then stores the file. Nothing is written to
// storage unless every part of the request passed validation.
func (rc *Receiver) Receive(w http.ResponseWriter, r *http.Request) (Result, error) {
	receivedAt := rc.opts.Now()

	r.Body = http.MaxBytesReader(w, r.Body, rc.opts.MaxBytes+multipartOverhead)
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return Result{}, ErrMissingFile
	}
	if err != nil {
		return Result{}, fmt.Errorf("read multipart body: %w", err)
	}

	var file *filePart
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, rc.readError(err)
		}

		// Plain form fields are ignored; NextPart discards their content.
		if part.FileName() == "" {
			continue
		}
		if part.FormName() != rc.opts.FieldName || file != nil {
			return Result{}, fmt.Errorf("%w %q", ErrUnexpectedField, part.FormName())
		}

		f, err := rc.readFile(part)
		if err != nil {
			return Result{}, err
		}
		file = f
	}

	if file == nil {
		return Result{}, ErrMissingFile
	}

	key := rc.opts.Key(receivedAt, file.name)
	size := int64(len(file.data))
	err = rc.store.Put(r.Context(), storage.PutInput{
		Key:         key,
		Body:        bytes.NewReader(file.data),
		Size:        size,
		ContentType: file.contentType,
		Metadata:    map[string]string{"fieldName": rc.opts.FieldName},
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Location: rc.store.PublicURL(key),
		Key:      key,
		Size:     size,
		MIMEType: file.contentType,
	}, nil
}

// readFile checks the declared type before reading any content, then reads
// at most MaxBytes+1 bytes to detect an oversized file. Parts without a
// declared type are sniffed once read when SniffUndeclared is set.
// The stored name is the last path element of the client's filename.
func (rc *Receiver) readFile(part *multipart.Part) (*filePart, error) {
	contentType := normalizeType(part.Header.Get("Content-Type"))
	sniff := contentType == "" && rc.opts.SniffUndeclared
	if contentType == "" && !sniff {
		contentType = undeclaredType
	}
	if !sniff {
		if err := rc.checkType(contentType); err != nil {
			return nil, err
		}
	}

	data, err := io.ReadAll(io.LimitReader(part, rc.opts.MaxBytes+1))
	if err != nil {
		return nil, rc.readError(err)
	}
	if int64(len(data)) > rc.opts.MaxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, rc.opts.MaxBytes)
	}

	if sniff {
		contentType = sniffType(data)
		if err := rc.checkType(contentType); err != nil {
			return nil, err
		}
	}

	return &filePart{name: part.FileName(), contentType: contentType, data: data}, nil
}

func (rc *Receiver) readError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body exceeds %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("read upload: %w", err)
}

func (rc *Receiver) checkType(contentType string) error {
	if rc.allowed[contentType] {
		return nil
	}
	return fmt.Errorf("%w: %q is not one of %s", ErrUnsupportedMediaType, contentType, strings.Join(rc.opts.AllowedTypes, ", "))
}

// normalizeType lowercases a MIME type and drops its parameters.
func normalizeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func sniffType(data []byte) string {
	return normalizeType(mimetype.Detect(data).String())
}
