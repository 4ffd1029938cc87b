// Package s3fs presents an object-storage backend as a hierarchical
// filesystem: directories are synthesized from key prefixes, paths are
// translated between absolute URLs and storage keys, and shell-style glob
// patterns are expanded over flat object listings.
package s3fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmgilman/s3fs/internal/pathutil"
)

// Visibility is the advisory visibility flag carried by ObjectConfig.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ObjectConfig is the write/create configuration bundle applied uniformly to
// directory creation, copy, move and write operations.
//
// The defaults pair a public-read ACL with private visibility. The pairing is
// contradictory on its face; it is preserved as-is because backends differ in
// which of the two fields they honor, and reconciling them is the calling
// system's decision. Both fields remain independently configurable.
type ObjectConfig struct {
	// ACL is the access-control intent sent with each write (e.g. "public-read").
	ACL string

	// Visibility is the advisory public/private flag.
	Visibility Visibility
}

// DefaultObjectConfig returns the fixed configuration bundle used when none
// is provided.
func DefaultObjectConfig() ObjectConfig {
	return ObjectConfig{
		ACL:        "public-read",
		Visibility: VisibilityPrivate,
	}
}

// Entry is a single immediate child of a listed directory.
type Entry struct {
	Name  string
	IsDir bool
}

// ObjectStore abstracts the object storage provider the driver operates on.
// All keys are normalized, slash-separated paths relative to the store's
// root; "" represents the virtual root. Errors returned by implementations
// wrap ErrNotFound for missing keys and are otherwise StorageError or
// MetadataError values.
type ObjectStore interface {
	// ListDirectory returns the immediate children of key, in the backend's
	// listing order. Implementations wanting deterministic glob results must
	// return sorted listings.
	ListDirectory(ctx context.Context, key string) ([]Entry, error)

	// IsDirectory reports whether key exists as a directory.
	IsDirectory(ctx context.Context, key string) bool

	// Exists reports whether key exists as a file or directory.
	Exists(ctx context.Context, key string) bool

	// CreateDirectoryMarker creates the marker object that makes key behave
	// as a directory. Creating an existing marker is a no-op.
	CreateDirectoryMarker(ctx context.Context, key string, cfg ObjectConfig) error

	// Write stores data at key.
	Write(ctx context.Context, key string, data []byte, cfg ObjectConfig) error

	// WriteStream stores the contents of r at key. A negative size means the
	// length is unknown.
	WriteStream(ctx context.Context, key string, r io.Reader, size int64, cfg ObjectConfig) error

	// FileSize returns the size of the object at key, failing with a
	// MetadataError when the metadata cannot be retrieved.
	FileSize(ctx context.Context, key string) (int64, error)

	// Copy duplicates the object at src to dst.
	Copy(ctx context.Context, src, dst string, cfg ObjectConfig) error

	// Move relocates src (an object or a directory subtree) to dst.
	Move(ctx context.Context, src, dst string, cfg ObjectConfig) error
}

// Config holds driver configuration.
type Config struct {
	// Store is the object storage backend. Required; there is no implicit
	// default collaborator.
	Store ObjectStore

	// BaseURL is the externally visible URL prefix for absolute paths
	// (e.g. "https://bucket.s3.amazonaws.com/media/").
	BaseURL string

	// Object is the write/create configuration bundle. Zero value means
	// DefaultObjectConfig().
	Object ObjectConfig

	// Logger receives structured failure logs from boolean-degrading
	// operations. Defaults to slog.Default().
	Logger *slog.Logger
}

func (c *Config) validate() error {
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	return nil
}

// Driver is the path/pattern layer above an ObjectStore. It is designed for
// a single-threaded, synchronous-call model; each operation runs to
// completion on the calling goroutine.
type Driver struct {
	store   ObjectStore
	baseURL string
	object  ObjectConfig
	log     *slog.Logger
}

// New creates a driver over the given store. All collaborators are explicit;
// a missing store or base URL is a configuration error.
func New(cfg Config) (*Driver, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	object := cfg.Object
	if object == (ObjectConfig{}) {
		object = DefaultObjectConfig()
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Driver{
		store:   cfg.Store,
		baseURL: pathutil.NormalizeBaseURL(cfg.BaseURL),
		object:  object,
		log:     log,
	}, nil
}

// ToRelative strips the configured base URL from path. When fix is set,
// leading and trailing slashes are trimmed as well.
func (d *Driver) ToRelative(path string, fix bool) string {
	return pathutil.ToRelative(d.baseURL, path, fix)
}

// ToAbsolute prepends the configured base URL to key. Idempotent: an
// already-absolute path is never double-prefixed.
func (d *Driver) ToAbsolute(key string) string {
	return pathutil.ToAbsolute(d.baseURL, key)
}
