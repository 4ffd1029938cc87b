package miniostore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/jmgilman/s3fs"
	"github.com/jmgilman/s3fs/internal/pathutil"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"
)

// Store implements s3fs.ObjectStore for MinIO/S3-compatible storage.
// Directories are virtual: a key is a directory when a zero-byte "key/"
// marker object exists or when any object lives under the "key/" prefix.
type Store struct {
	client          *minio.Client
	bucket          string
	prefix          string // Optional prefix for all keys
	moveConcurrency int    // Max concurrent operations for directory move
}

// New creates a MinIO-backed object store.
// Returns error if configuration is invalid or connection fails.
func New(cfg Config) (*Store, error) {
	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var client *minio.Client
	var err error

	// Use provided client or create new one
	if cfg.Client != nil {
		client = cfg.Client
	} else {
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	// Set default move concurrency if not specified
	moveConcurrency := cfg.MaxMoveConcurrency
	if moveConcurrency == 0 {
		moveConcurrency = 10
	}

	return &Store{
		client:          client,
		bucket:          cfg.Bucket,
		prefix:          pathutil.NormalizePrefix(cfg.Prefix),
		moveConcurrency: moveConcurrency,
	}, nil
}

// key joins the store prefix with the given relative key, normalizing the
// caller-supplied portion (slash cleanup, dot-segment resolution).
func (s *Store) key(rel string) string {
	return pathutil.JoinPath(s.prefix, rel)
}

// dirPrefix returns the listing prefix for a directory key ("" for root).
func (s *Store) dirPrefix(rel string) string {
	key := s.key(rel)
	if key != "" && !strings.HasSuffix(key, "/") {
		key += "/"
	}
	return key
}

// ListDirectory returns the immediate children of rel, sorted by name.
// Sorted listings make glob expansion deterministic.
func (s *Store) ListDirectory(ctx context.Context, rel string) ([]s3fs.Entry, error) {
	prefix := s.dirPrefix(rel)

	var entries []s3fs.Entry

	// List objects with delimiter to get directory structure
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, &s3fs.StorageError{Op: "list", Key: rel, Err: translate(object.Err)}
		}

		// Skip the directory marker itself
		if object.Key == prefix {
			continue
		}

		name := strings.TrimPrefix(object.Key, prefix)
		isDir := strings.HasSuffix(name, "/")
		if isDir {
			name = strings.TrimSuffix(name, "/")
		}
		if name == "" {
			continue
		}

		entries = append(entries, s3fs.Entry{Name: name, IsDir: isDir})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// IsDirectory reports whether rel exists as a directory. The root is always
// a directory; otherwise a marker object or any object under the prefix
// counts.
func (s *Store) IsDirectory(ctx context.Context, rel string) bool {
	if rel == "" || rel == "." || rel == "/" {
		return true
	}

	prefix := s.dirPrefix(rel)

	// Marker object check first: cheaper than a listing
	if _, err := s.client.StatObject(ctx, s.bucket, prefix, minio.StatObjectOptions{}); err == nil {
		return true
	}

	// Fall back to probing for any object under the prefix
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
		MaxKeys:   1,
	})
	object, ok := <-objects
	return ok && object.Err == nil
}

// Exists reports whether rel exists as a file or directory.
func (s *Store) Exists(ctx context.Context, rel string) bool {
	if _, err := s.client.StatObject(ctx, s.bucket, s.key(rel), minio.StatObjectOptions{}); err == nil {
		return true
	}
	return s.IsDirectory(ctx, rel)
}

// CreateDirectoryMarker creates the zero-byte "key/" object that makes rel
// behave as a directory. Creating an existing marker is a no-op.
func (s *Store) CreateDirectoryMarker(ctx context.Context, rel string, cfg s3fs.ObjectConfig) error {
	marker := s.dirPrefix(rel)

	if _, err := s.client.StatObject(ctx, s.bucket, marker, minio.StatObjectOptions{}); err == nil {
		return nil
	}

	_, err := s.client.PutObject(ctx, s.bucket, marker, bytes.NewReader(nil), 0, putOpts(cfg))
	if err != nil {
		return &s3fs.StorageError{Op: "mkdir", Key: rel, Err: translate(err)}
	}
	return nil
}

// Write stores data at rel.
func (s *Store) Write(ctx context.Context, rel string, data []byte, cfg s3fs.ObjectConfig) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(rel), bytes.NewReader(data), int64(len(data)), putOpts(cfg))
	if err != nil {
		return &s3fs.StorageError{Op: "write", Key: rel, Err: translate(err)}
	}
	return nil
}

// WriteStream stores the contents of r at rel. A negative size streams with
// unknown length.
func (s *Store) WriteStream(ctx context.Context, rel string, r io.Reader, size int64, cfg s3fs.ObjectConfig) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(rel), r, size, putOpts(cfg))
	if err != nil {
		return &s3fs.StorageError{Op: "write", Key: rel, Err: translate(err)}
	}
	return nil
}

// FileSize returns the size of the object at rel.
func (s *Store) FileSize(ctx context.Context, rel string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.key(rel), minio.StatObjectOptions{})
	if err != nil {
		return 0, &s3fs.MetadataError{Key: rel, Err: translate(err)}
	}
	return info.Size, nil
}

// Copy duplicates the object at src to dst.
func (s *Store) Copy(ctx context.Context, src, dst string, cfg s3fs.ObjectConfig) error {
	if err := s.copyObject(ctx, s.key(src), s.key(dst), cfg); err != nil {
		return &s3fs.StorageError{Op: "copy", Key: src, Err: translate(err)}
	}
	return nil
}

// Move relocates src to dst. A single object moves as copy + remove; a
// directory subtree moves with a bounded worker pool of copies followed by
// batch deletion.
//
// IMPORTANT: This operation is NOT atomic. If an error occurs during the
// copy phase, some objects may have been copied. If an error occurs during
// the delete phase, objects will exist at both old and new paths.
func (s *Store) Move(ctx context.Context, src, dst string, cfg s3fs.ObjectConfig) error {
	srcKey := s.key(src)
	dstKey := s.key(dst)

	// Single object: simple copy + remove
	if _, err := s.client.StatObject(ctx, s.bucket, srcKey, minio.StatObjectOptions{}); err == nil {
		if err := s.copyObject(ctx, srcKey, dstKey, cfg); err != nil {
			return &s3fs.StorageError{Op: "move", Key: src, Err: translate(err)}
		}
		if err := s.client.RemoveObject(ctx, s.bucket, srcKey, minio.RemoveObjectOptions{}); err != nil {
			return &s3fs.StorageError{Op: "move", Key: src, Err: translate(err)}
		}
		return nil
	}

	// Directory subtree: parallel copy all objects under the prefix
	copied, err := s.parallelCopy(ctx, s.dirPrefix(src), s.dirPrefix(dst), cfg)
	if err != nil {
		return &s3fs.StorageError{Op: "move", Key: src, Err: translate(err)}
	}
	if len(copied) == 0 {
		return &s3fs.StorageError{Op: "move", Key: src, Err: s3fs.ErrNotFound}
	}

	// Batch delete old objects
	toDelete := make(chan minio.ObjectInfo, len(copied))
	go func() {
		defer close(toDelete)
		for _, key := range copied {
			toDelete <- minio.ObjectInfo{Key: key}
		}
	}()

	errorCh := s.client.RemoveObjects(ctx, s.bucket, toDelete, minio.RemoveObjectsOptions{})
	for err := range errorCh {
		if err.Err != nil {
			// Copy succeeded but delete failed - partial state
			return &s3fs.StorageError{Op: "move", Key: src, Err: translate(err.Err)}
		}
	}

	return nil
}

// copyObject performs a single server-side copy with the config's metadata.
func (s *Store) copyObject(ctx context.Context, srcKey, dstKey string, cfg s3fs.ObjectConfig) error {
	src := minio.CopySrcOptions{Bucket: s.bucket, Object: srcKey}
	dst := minio.CopyDestOptions{Bucket: s.bucket, Object: dstKey}
	if meta := metadataFor(cfg); meta != nil {
		dst.UserMetadata = meta
		dst.ReplaceMetadata = true
	}

	_, err := s.client.CopyObject(ctx, dst, src)
	return err
}

// parallelCopy copies objects from old to new prefix using a worker pool.
// Returns the list of successfully copied object keys for cleanup.
func (s *Store) parallelCopy(ctx context.Context, oldPrefix, newPrefix string, cfg s3fs.ObjectConfig) ([]string, error) {
	// Create errgroup with concurrency limit
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.moveConcurrency)

	// Track copied objects for deletion
	var copiedMu sync.Mutex
	var copied []string

	// Stream objects and copy in parallel
	for object := range s.client.ListObjects(egCtx, s.bucket, minio.ListObjectsOptions{
		Prefix:    oldPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return copied, object.Err
		}

		objectKey := object.Key
		eg.Go(func() error {
			relPath := strings.TrimPrefix(objectKey, oldPrefix)
			newKey := newPrefix + relPath

			if err := s.copyObject(egCtx, objectKey, newKey, cfg); err != nil {
				return fmt.Errorf("copy object %s to %s: %w", objectKey, newKey, err)
			}

			// Track for deletion
			copiedMu.Lock()
			copied = append(copied, objectKey)
			copiedMu.Unlock()

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return copied, fmt.Errorf("parallel copy failed: %w", err)
	}

	return copied, nil
}

// putOpts maps the write configuration bundle onto request options.
func putOpts(cfg s3fs.ObjectConfig) minio.PutObjectOptions {
	return minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: metadataFor(cfg),
	}
}

// metadataFor maps the ACL intent onto the x-amz-acl header. The SDK passes
// recognized amz headers through without the x-amz-meta- prefix. The
// Visibility flag is advisory and not sent on the wire; reconciling it with
// the ACL is the calling system's decision.
func metadataFor(cfg s3fs.ObjectConfig) map[string]string {
	if cfg.ACL == "" {
		return nil
	}
	return map[string]string{"x-amz-acl": cfg.ACL}
}

// translate converts MinIO errors to the package's error vocabulary.
func translate(err error) error {
	if err == nil {
		return nil
	}

	errResp := minio.ToErrorResponse(err)
	switch errResp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return s3fs.ErrNotFound
	}

	return err
}

// Compile-time interface check.
var _ s3fs.ObjectStore = (*Store)(nil)
