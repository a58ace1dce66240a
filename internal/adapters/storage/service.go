// Package storage provides a domain-agnostic interface for S3-compatible object storage.
// The config archive uses it to keep every saved catalog and weight document.
package storage

import (
	"context"
	"time"
)

// PresignedURL contains the URL and metadata for a presigned download.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	LastModified time.Time         `json:"lastModified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// StorageService defines the interface for object storage operations.
type StorageService interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// PutObject stores body under key, replacing any object with that key.
	PutObject(ctx context.Context, bucket, key, contentType string, body []byte, metadata map[string]string) error

	// ListObjects returns up to limit objects under prefix, newest key first.
	ListObjects(ctx context.Context, bucket, prefix string, limit int) ([]ObjectInfo, error)

	// GenerateDownloadURL creates a presigned URL for downloading an object.
	GenerateDownloadURL(ctx context.Context, bucket, key string) (*PresignedURL, error)
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsArchiveEnabled() bool
}
