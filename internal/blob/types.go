// Package blob abstracts the object storage used for event journals. Keys map
// directly to object keys. Journal writes are create-only (Put refuses an
// existing key); Delete exists for journal retention management.
package blob

import (
	"context"
	"io"
	"time"
)

// Driver identifies a blob backend driver.
type Driver string

// Supported blob drivers.
const (
	// DriverMemory is the in-process test driver.
	DriverMemory Driver = "memory"
	// DriverFilesystem stores objects under a local directory root.
	DriverFilesystem Driver = "fs"
	// DriverS3 targets an S3-compatible backend (AWS S3 or MinIO).
	DriverS3 Driver = "s3"
)

// PutOptions configures a blob write.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes stored blob metadata.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Store is the interface journal writers depend on. Put fails when the key
// already exists so journal entries are never silently rewritten.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
