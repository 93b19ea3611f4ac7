package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ISTS-2025/project-repository-service/internal/config"
)

// ErrUnsupportedContentType rejects uploads that are not images.
var ErrUnsupportedContentType = fmt.Errorf("unsupported content type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Storage persists uploaded files and returns the public URL path the
// stored file is reachable under.
type Storage interface {
	Save(ctx context.Context, prefix, contentType string, size int64, r io.Reader) (string, error)
}

// ObjectName builds a collision-free name for an upload, or fails when the
// content type is not an allowed image type.
func ObjectName(prefix, contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedContentType
	}
	return filepath.ToSlash(filepath.Join(prefix, uuid.NewString()+ext)), nil
}

// LocalStorage writes files under a directory served statically by the
// HTTP layer.
type LocalStorage struct {
	dir       string
	urlPrefix string
}

func NewLocalStorage(cfg config.UploadConfig) *LocalStorage {
	return &LocalStorage{
		dir:       cfg.Dir,
		urlPrefix: strings.TrimSuffix(cfg.URLPrefix, "/"),
	}
}

func (s *LocalStorage) Save(ctx context.Context, prefix, contentType string, _ int64, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := ObjectName(prefix, contentType)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return s.urlPrefix + "/" + name, nil
}

// MinioStorage puts files into an S3-compatible bucket.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(cfg config.UploadConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *MinioStorage) Save(ctx context.Context, prefix, contentType string, size int64, r io.Reader) (string, error) {
	name, err := ObjectName(prefix, contentType)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", name, err)
	}

	return fmt.Sprintf("/%s/%s", s.bucket, name), nil
}

// NewStorage picks the object store when an endpoint is configured and
// falls back to local disk otherwise.
func NewStorage(cfg config.UploadConfig) (Storage, error) {
	if cfg.MinioEndpoint != "" {
		return NewMinioStorage(cfg)
	}
	return NewLocalStorage(cfg), nil
}
