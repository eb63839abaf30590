package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/harshad-dhokane/new-docx/pkg/lifecycle"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

func newMinio(cfg *MinioConfig, logger *slog.Logger) (*minioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &minioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With("system", "storage", "backend", "minio"),
	}, nil
}

func (m *minioStore) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting storage system", "bucket", m.bucket, "endpoint", m.client.EndpointURL().Host)

	ctx := lc.Context()
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}

	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		m.logger.Info("bucket created", "bucket", m.bucket)
	}

	lc.OnStartup(func() {
		m.logger.Info("object storage ready")
	})

	return nil
}

func (m *minioStore) Store(ctx context.Context, key string, data []byte) error {
	key, err := objectKey(key)
	if err != nil {
		return err
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (m *minioStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	key, err := objectKey(key)
	if err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.mapError(err)
	}
	defer obj.Close()

	if _, err := obj.Stat(); err != nil {
		return nil, m.mapError(err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

func (m *minioStore) Delete(ctx context.Context, key string) error {
	key, err := objectKey(key)
	if err != nil {
		return err
	}

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if mapped := m.mapError(err); mapped == ErrNotFound {
			return nil
		}
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (m *minioStore) mapError(err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchObject":
		return ErrNotFound
	case "AccessDenied":
		return ErrPermissionDenied
	}
	return fmt.Errorf("object storage: %w", err)
}

func objectKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || strings.HasPrefix(cleaned, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
