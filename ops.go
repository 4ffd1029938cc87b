package s3fs

import (
	"context"

	"github.com/jmgilman/s3fs/internal/pathutil"
)

// EnsureDirectory makes path behave as a directory, creating missing marker
// objects for it and every missing ancestor, deepest ancestor first. Calling
// it on an existing directory is a no-op. Backend failures are logged and
// reported as false.
func (d *Driver) EnsureDirectory(ctx context.Context, path string) bool {
	key := pathutil.ToRelative(d.baseURL, path, true)
	return d.ensureDirectory(ctx, key)
}

func (d *Driver) ensureDirectory(ctx context.Context, key string) bool {
	if key == "" || key == "." {
		return true
	}

	if parent := pathutil.Parent(key); parent != "" && !d.store.IsDirectory(ctx, parent) {
		if !d.ensureDirectory(ctx, parent) {
			return false
		}
	}

	if d.store.IsDirectory(ctx, key) {
		return true
	}

	if err := d.store.CreateDirectoryMarker(ctx, key, d.object); err != nil {
		d.log.Error("Failed creating directory marker", "key", key, "err", err)
		return false
	}

	return true
}

// Copy duplicates the object at src to dst, materializing dst's parent
// directories first. Backend failures are logged and reported as false.
func (d *Driver) Copy(ctx context.Context, src, dst string) bool {
	srcKey := pathutil.ToRelative(d.baseURL, src, true)
	dstKey := pathutil.ToRelative(d.baseURL, dst, true)

	if !d.ensureDirectory(ctx, pathutil.Parent(dstKey)) {
		return false
	}

	if err := d.store.Copy(ctx, srcKey, dstKey, d.object); err != nil {
		d.log.Error("Failed copying object", "src", srcKey, "dst", dstKey, "err", err)
		return false
	}

	return true
}

// Rename moves src to dst, materializing dst's parent directories first.
// Backend failures are logged and reported as false.
func (d *Driver) Rename(ctx context.Context, src, dst string) bool {
	srcKey := pathutil.ToRelative(d.baseURL, src, true)
	dstKey := pathutil.ToRelative(d.baseURL, dst, true)

	if !d.ensureDirectory(ctx, pathutil.Parent(dstKey)) {
		return false
	}

	if err := d.store.Move(ctx, srcKey, dstKey, d.object); err != nil {
		d.log.Error("Failed moving object", "src", srcKey, "dst", dstKey, "err", err)
		return false
	}

	return true
}

// Write stores data at path, materializing parent directories first, and
// returns the stored object's size. A metadata failure after a successful
// write degrades to size 0 with success; a write failure is logged and
// reported as false.
func (d *Driver) Write(ctx context.Context, path string, data []byte) (int64, bool) {
	key := pathutil.ToRelative(d.baseURL, path, true)

	if !d.ensureDirectory(ctx, pathutil.Parent(key)) {
		return 0, false
	}

	if err := d.store.Write(ctx, key, data, d.object); err != nil {
		d.log.Error("Failed writing object", "key", key, "err", err)
		return 0, false
	}

	size, err := d.store.FileSize(ctx, key)
	if err != nil {
		d.log.Warn("Failed retrieving size of written object", "key", key, "err", err)
		return 0, true
	}

	return size, true
}
