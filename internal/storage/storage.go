package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/therealutkarshpriyadarshi/vidmarks/internal/config"
	"github.com/therealutkarshpriyadarshi/vidmarks/internal/metrics"
)

// Storage provides object storage operations for published catalogs
type Storage struct {
	client     *minio.Client
	bucketName string
}

// New creates a new storage client
func New(cfg config.StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:     client,
		bucketName: cfg.BucketName,
	}, nil
}

// Bucket returns the bucket objects are read from and written to
func (s *Storage) Bucket() string {
	return s.bucketName
}

// Upload writes data under objectName
func (s *Storage) Upload(ctx context.Context, objectName string, data []byte) error {
	start := time.Now()
	_, err := s.client.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: getContentType(objectName),
	})
	record("upload", start, int64(len(data)), err)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	return nil
}

// ReadObject returns the full contents of objectName
func (s *Storage) ReadObject(ctx context.Context, objectName string) ([]byte, error) {
	start := time.Now()
	object, err := s.client.GetObject(ctx, s.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		record("download", start, 0, err)
		return nil, fmt.Errorf("failed to download object: %w", err)
	}
	defer object.Close()

	// GetObject is lazy; a missing key surfaces on the first read
	data, err := io.ReadAll(object)
	record("download", start, int64(len(data)), err)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", objectName, err)
	}

	return data, nil
}

func record(operation string, start time.Time, size int64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordStorageOperation(operation, status, time.Since(start).Seconds(), size)
}

// getContentType returns the content type based on file extension
func getContentType(filePath string) string {
	switch filepath.Ext(filePath) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
