package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// s3API is the subset of *s3.Client used by S3Storage.
type s3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjects(ctx context.Context, params *s3.ListObjectsInput, optFns ...func(*s3.Options)) (*s3.ListObjectsOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Overridable in tests.
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
)

// S3Config holds the settings for an S3Storage.
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	// Endpoint, when set, points the client at an S3-compatible service using path-style addressing.
	Endpoint      string
	PublicBaseURL string
	PublicRead    bool
}

// S3Storage implements Storage on top of the AWS SDK.
type S3Storage struct {
	client     s3API
	bucket     string
	publicBase string
	publicRead bool
}

// NewS3Storage builds the SDK client from static credentials. No request is
// sent to the backend; use Probe for that.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Storage(client, cfg), nil
}

func newS3Storage(client s3API, cfg S3Config) *S3Storage {
	return &S3Storage{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: cfg.PublicBaseURL,
		publicRead: cfg.PublicRead,
	}
}

// Put uploads in.Body with a known length. The public-read canned ACL is
// attached when the storage was configured with PublicRead.
func (s *S3Storage) Put(ctx context.Context, in PutInput) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(in.Key),
		Body:          in.Body,
		ContentLength: aws.Int64(in.Size),
		ContentType:   aws.String(in.ContentType),
		Metadata:      in.Metadata,
	}
	if s.publicRead {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return s3Error("put object", err)
	}
	return nil
}

// List enumerates the bucket with one ListObjects call. A truncated listing
// is returned as-is.
func (s *S3Storage) List(ctx context.Context) ([]Object, error) {
	out, err := s.client.ListObjects(ctx, &s3.ListObjectsInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return nil, s3Error("list objects", err)
	}

	objects := make([]Object, 0, len(out.Contents))
	for _, o := range out.Contents {
		key := aws.ToString(o.Key)
		objects = append(objects, Object{
			Key:          key,
			Size:         aws.ToInt64(o.Size),
			LastModified: aws.ToTime(o.LastModified),
			URL:          s.PublicURL(key),
		})
	}
	return objects, nil
}

// Delete removes the object at key from the bucket.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return s3Error("delete object", err)
	}
	return nil
}

// PublicURL returns https://<bucket>.s3.amazonaws.com/<key> unless a public base URL was configured.
func (s *S3Storage) PublicURL(key string) string {
	return objectURL(s.publicBase, s.bucket, key)
}

// Probe lists the account's buckets.
func (s *S3Storage) Probe(ctx context.Context) error {
	if _, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
		return s3Error("list buckets", err)
	}
	return nil
}

// s3Error keeps the service's error message when the SDK parsed one, and the
// full transport error otherwise.
func s3Error(op string, err error) *BackendError {
	be := &BackendError{Op: op, Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		be.Message = apiErr.ErrorMessage()
		if be.Message == "" {
			be.Message = apiErr.ErrorCode()
		}
	}
	return be
}
