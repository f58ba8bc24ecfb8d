package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	putBody []byte
	deleted []string

	objects []types.Object
	err     error
}

func (f *fakeS3) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.ListBucketsOutput{}, nil
}

func (f *fakeS3) ListObjects(ctx context.Context, params *s3.ListObjectsInput, optFns ...func(*s3.Options)) (*s3.ListObjectsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3.ListObjectsOutput{Contents: f.objects}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = params
	f.putBody, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_Put_PublicRead(t *testing.T) {
	api := &fakeS3{}
	s := newS3Storage(api, S3Config{Bucket: "photos", PublicRead: true})

	err := s.Put(context.Background(), PutInput{
		Key:         "1700000000000-photo.png",
		Body:        bytes.NewReader([]byte("png-bytes")),
		Size:        9,
		ContentType: "image/png",
		Metadata:    map[string]string{"fieldName": "file"},
	})

	require.NoError(t, err)
	require.NotNil(t, api.put)
	assert.Equal(t, "photos", aws.ToString(api.put.Bucket))
	assert.Equal(t, "1700000000000-photo.png", aws.ToString(api.put.Key))
	assert.Equal(t, int64(9), aws.ToInt64(api.put.ContentLength))
	assert.Equal(t, "image/png", aws.ToString(api.put.ContentType))
	assert.Equal(t, types.ObjectCannedACLPublicRead, api.put.ACL)
	assert.Equal(t, "file", api.put.Metadata["fieldName"])
	assert.Equal(t, []byte("png-bytes"), api.putBody)
}

func TestS3Storage_Put_Private(t *testing.T) {
	api := &fakeS3{}
	s := newS3Storage(api, S3Config{Bucket: "photos"})

	require.NoError(t, s.Put(context.Background(), PutInput{Key: "k", Body: bytes.NewReader(nil)}))

	assert.Empty(t, api.put.ACL)
}

func TestS3Storage_List(t *testing.T) {
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeS3{objects: []types.Object{
		{Key: aws.String("2-b.png"), Size: aws.Int64(20), LastModified: aws.Time(modified)},
		{Key: aws.String("1-a.jpg"), Size: aws.Int64(10), LastModified: aws.Time(modified)},
	}}
	s := newS3Storage(api, S3Config{Bucket: "photos"})

	objects, err := s.List(context.Background())

	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "2-b.png", objects[0].Key, "backend order is kept")
	assert.Equal(t, int64(20), objects[0].Size)
	assert.Equal(t, modified, objects[0].LastModified)
	assert.Equal(t, "https://photos.s3.amazonaws.com/2-b.png", objects[0].URL)
	assert.Equal(t, "1-a.jpg", objects[1].Key)
}

func TestS3Storage_List_EmptyBucket(t *testing.T) {
	s := newS3Storage(&fakeS3{}, S3Config{Bucket: "photos"})

	objects, err := s.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)
}

func TestS3Storage_Delete(t *testing.T) {
	api := &fakeS3{}
	s := newS3Storage(api, S3Config{Bucket: "photos"})

	require.NoError(t, s.Delete(context.Background(), "1-a.jpg"))
	require.NoError(t, s.Delete(context.Background(), "1-a.jpg"))

	assert.Equal(t, []string{"1-a.jpg", "1-a.jpg"}, api.deleted)
}

func TestS3Storage_APIErrorMessage(t *testing.T) {
	api := &fakeS3{err: &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}}
	s := newS3Storage(api, S3Config{Bucket: "photos"})

	err := s.Delete(context.Background(), "k")

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "delete object", be.Op)
	assert.Equal(t, "Access Denied", err.Error())
	assert.Equal(t, "delete object: Access Denied", be.String())
}

func TestS3Storage_APIErrorCodeOnly(t *testing.T) {
	api := &fakeS3{err: &smithy.GenericAPIError{Code: "NoSuchBucket"}}
	s := newS3Storage(api, S3Config{Bucket: "photos"})

	_, err := s.List(context.Background())

	require.Error(t, err)
	assert.Equal(t, "NoSuchBucket", err.Error())
}

func TestS3Storage_TransportError(t *testing.T) {
	transport := errors.New("dial tcp 127.0.0.1:9: connect: connection refused")
	s := newS3Storage(&fakeS3{err: transport}, S3Config{Bucket: "photos"})

	err := s.Probe(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, transport)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestS3Storage_PublicURL(t *testing.T) {
	assert.Equal(t, "https://photos.s3.amazonaws.com/a.png",
		newS3Storage(&fakeS3{}, S3Config{Bucket: "photos"}).PublicURL("a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png",
		newS3Storage(&fakeS3{}, S3Config{Bucket: "photos", PublicBaseURL: "https://cdn.example.com/"}).PublicURL("a.png"))
}

func TestNewS3Storage_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "AKIA", creds.AccessKeyID)
		assert.Equal(t, "secret", creds.SecretAccessKey)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	s, err := NewS3Storage(context.Background(), S3Config{
		AccessKey: "AKIA",
		SecretKey: "secret",
		Region:    "eu-west-1",
		Bucket:    "photos",
		Endpoint:  "http://127.0.0.1:9000",
	})

	require.NoError(t, err)
	assert.Equal(t, "photos", s.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Storage_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("bad shared config")
	}

	_, err := NewS3Storage(context.Background(), S3Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad shared config")
}
