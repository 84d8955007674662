package storage

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"TrackDrop/config"
	"TrackDrop/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Mirror copies stored payloads to a secondary location.
type Mirror interface {
	Mirror(ctx context.Context, kind Kind, name, localPath string) error
	Exists(ctx context.Context, kind Kind, name string) (bool, error)
}

// NopMirror discards every request.
type NopMirror struct{}

func (NopMirror) Mirror(context.Context, Kind, string, string) error { return nil }

func (NopMirror) Exists(context.Context, Kind, string) (bool, error) { return false, nil }

// MinioMirror uploads payloads to a MinIO (or S3 compatible) bucket.
type MinioMirror struct {
	client     *minio.Client
	bucketName string
}

// NewMinioMirror connects to the configured endpoint and creates the bucket if missing.
func NewMinioMirror(ctx context.Context, cfg *config.Config) (*MinioMirror, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created MinIO bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &MinioMirror{client: client, bucketName: cfg.MinioBucket}, nil
}

// NewMirror returns a MinioMirror when mirroring is configured, otherwise a NopMirror.
func NewMirror(ctx context.Context, cfg *config.Config) (Mirror, error) {
	if !cfg.MirrorEnabled() {
		return NopMirror{}, nil
	}
	return NewMinioMirror(ctx, cfg)
}

// Mirror uploads the local file to <prefix>/<name>.
func (m *MinioMirror) Mirror(ctx context.Context, kind Kind, name, localPath string) error {
	key := ObjectKey(kind, name)
	_, err := m.client.FPutObject(ctx, m.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: DetectContentType(kind, name),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, m.bucketName, err)
	}
	return nil
}

// Exists reports whether the payload is already present in the bucket.
func (m *MinioMirror) Exists(ctx context.Context, kind Kind, name string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucketName, ObjectKey(kind, name), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ObjectKey is the bucket key for a payload.
func ObjectKey(kind Kind, name string) string {
	switch kind {
	case KindCover:
		return "covers/" + name
	default:
		return "audio/" + name
	}
}

// DetectContentType guesses a content type from the extension, falling back per kind.
func DetectContentType(kind Kind, name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	switch kind {
	case KindCover:
		return "image/jpeg"
	case KindAudio:
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
