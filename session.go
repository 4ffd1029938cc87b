package s3fs

import (
	"bytes"
	"context"
	"errors"

	"github.com/jmgilman/s3fs/internal/pathutil"
)

// WriteSession is an explicit buffered write for a single object. It carries
// its own key and buffer; nothing about the session is recoverable from a
// global registry, and the contract assumes at most one logical writer per
// path at a time.
type WriteSession struct {
	driver *Driver
	key    string
	buffer bytes.Buffer
	closed bool
}

// BeginWrite starts a buffered write session for path. Nothing is sent to
// storage until Close.
func (d *Driver) BeginWrite(path string) *WriteSession {
	return &WriteSession{
		driver: d,
		key:    d.ToRelative(path, true),
	}
}

// Key returns the storage-relative key the session writes to.
func (s *WriteSession) Key() string {
	return s.key
}

// Write appends p to the session buffer. It implements io.Writer and fails
// with ErrSessionClosed after Close.
func (s *WriteSession) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrSessionClosed
	}
	return s.buffer.Write(p)
}

// Close finalizes the session: parent directories are materialized, the
// buffered bytes are streamed to storage, and the stored object's size is
// returned. A metadata failure after a successful upload degrades to size 0
// without error. A failed Close leaves the session open with its buffer
// intact, so the upload can be retried. After a successful Close the session
// is closed; repeated calls return 0, nil.
func (s *WriteSession) Close(ctx context.Context) (int64, error) {
	if s.closed {
		return 0, nil
	}

	d := s.driver

	if parent := pathutil.Parent(s.key); parent != "" && !d.ensureDirectory(ctx, parent) {
		return 0, &StorageError{Op: "mkdir", Key: parent, Err: errors.New("directory materialization failed")}
	}

	// Upload from a fresh reader over the buffered bytes; the buffer itself
	// is not consumed, so a failed upload can be retried.
	size := int64(s.buffer.Len())
	if err := d.store.WriteStream(ctx, s.key, bytes.NewReader(s.buffer.Bytes()), size, d.object); err != nil {
		return 0, err
	}
	s.closed = true

	stored, err := d.store.FileSize(ctx, s.key)
	if err != nil {
		d.log.Warn("Failed retrieving size of written object", "key", s.key, "err", err)
		return 0, nil
	}
	return stored, nil
}
