package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "UPLOAD_DIR", "COVER_DIR", "METADATA_FILE", "WEB_DIR", "MAX_UPLOAD_MB", "LOG_LEVEL", "MINIO_ENDPOINT", "MINIO_BUCKET", "MINIO_USE_SSL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "covers", cfg.CoverDir)
	assert.Equal(t, "metadata.json", cfg.MetadataFile)
	assert.Equal(t, int64(100), cfg.MaxUploadMB)
	assert.Equal(t, int64(100<<20), cfg.MaxUploadBytes())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "trackdrop", cfg.MinioBucket)
	assert.False(t, cfg.MirrorEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("UPLOAD_DIR", "/data/audio")
	t.Setenv("METADATA_FILE", "/data/tracks.json")
	t.Setenv("MAX_UPLOAD_MB", "20")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := FromEnv()

	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "/data/audio", cfg.UploadDir)
	assert.Equal(t, "/data/tracks.json", cfg.MetadataFile)
	assert.Equal(t, int64(20), cfg.MaxUploadMB)
	assert.True(t, cfg.MirrorEnabled())
	assert.True(t, cfg.MinioUseSSL)
}

func TestFromEnvInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("MINIO_USE_SSL", "maybe")

	cfg := FromEnv()

	assert.Equal(t, int64(100), cfg.MaxUploadMB)
	assert.False(t, cfg.MinioUseSSL)
}
