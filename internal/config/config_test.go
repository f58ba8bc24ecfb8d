package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setStorageEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_BUCKET_NAME", "photos")
}

func TestLoad_Defaults(t *testing.T) {
	setStorageEnv(t)

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverS3, cfg.StorageDriver)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"image/jpeg", "image/png"}, cfg.AllowedMIMETypes)
	assert.Equal(t, KeySchemeTimestamp, cfg.KeyScheme)
	assert.True(t, cfg.PublicRead)
	assert.True(t, cfg.StorageUseSSL)
	assert.Equal(t, 60*time.Second, cfg.ReadTimeout)
	assert.False(t, cfg.IsProduction())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	setStorageEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "MinIO")
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_USE_SSL", "false")
	t.Setenv("PUBLIC_READ", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("ALLOWED_MIME_TYPES", " image/PNG, ,image/gif ")
	t.Setenv("KEY_SCHEME", "random")
	t.Setenv("HTTP_WRITE_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverMinio, cfg.StorageDriver)
	assert.False(t, cfg.StorageUseSSL)
	assert.False(t, cfg.PublicRead)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"image/png", "image/gif"}, cfg.AllowedMIMETypes)
	assert.Equal(t, KeySchemeRandom, cfg.KeyScheme)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	setStorageEnv(t)
	t.Setenv("MAX_UPLOAD_BYTES", "ten")
	t.Setenv("HTTP_READ_TIMEOUT", "soon")
	t.Setenv("PUBLIC_READ", "maybe")

	cfg := Load()

	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Equal(t, 60*time.Second, cfg.ReadTimeout)
	assert.True(t, cfg.PublicRead)
}

func TestValidate_MissingCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_BUCKET_NAME", "")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "StorageAccessKey")
	assert.Contains(t, err.Error(), "StorageSecretKey")
	assert.Contains(t, err.Error(), "StorageRegion")
	assert.Contains(t, err.Error(), "StorageBucket")
}

func TestValidate_MinioNeedsEndpoint(t *testing.T) {
	setStorageEnv(t)
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("STORAGE_ENDPOINT", "")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "StorageEndpoint")
}

func TestValidate_UnknownKeyScheme(t *testing.T) {
	setStorageEnv(t)
	t.Setenv("KEY_SCHEME", "sha256")

	err := Load().Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "KeyScheme")
}

func TestValidate_UploadCapBounds(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"5368709120", true},
		{"5368709121", false},
		{"9223372036854775807", false},
		{"-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setStorageEnv(t)
			t.Setenv("MAX_UPLOAD_BYTES", tt.value)

			err := Load().Validate()

			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "MaxUploadBytes")
		})
	}
}

func TestLoad_SniffContentType(t *testing.T) {
	assert.False(t, Load().SniffContentType)

	t.Setenv("SNIFF_CONTENT_TYPE", "true")
	assert.True(t, Load().SniffContentType)
}
