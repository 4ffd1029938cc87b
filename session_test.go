package s3fs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("buffers then uploads on close", func(t *testing.T) {
		store := newFakeStore()
		driver := newQuietDriver(t, store)

		session := driver.BeginWrite("a/b/file.txt")
		assert.Equal(t, "a/b/file.txt", session.Key())

		_, err := session.Write([]byte("hel"))
		require.NoError(t, err)
		_, err = session.Write([]byte("lo"))
		require.NoError(t, err)

		// Nothing reaches storage before Close
		assert.Empty(t, store.objects)

		size, err := session.Close(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), size)
		assert.Equal(t, []byte("hello"), store.objects["a/b/file.txt"])
		assert.True(t, store.IsDirectory(ctx, "a/b"))
	})

	t.Run("write after close fails", func(t *testing.T) {
		store := newFakeStore()
		driver := newQuietDriver(t, store)

		session := driver.BeginWrite("file.txt")
		_, err := session.Close(ctx)
		require.NoError(t, err)

		_, err = session.Write([]byte("late"))
		assert.ErrorIs(t, err, ErrSessionClosed)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := newFakeStore()
		driver := newQuietDriver(t, store)

		session := driver.BeginWrite("file.txt")
		_, err := session.Write([]byte("x"))
		require.NoError(t, err)

		_, err = session.Close(ctx)
		require.NoError(t, err)

		size, err := session.Close(ctx)
		require.NoError(t, err)
		assert.Zero(t, size)
	})

	t.Run("metadata failure degrades to zero size", func(t *testing.T) {
		store := newFakeStore()
		store.sizeErr["file.txt"] = &MetadataError{Key: "file.txt", Err: errors.New("boom")}
		driver := newQuietDriver(t, store)

		session := driver.BeginWrite("file.txt")
		_, err := session.Write([]byte("hello"))
		require.NoError(t, err)

		size, err := session.Close(ctx)
		require.NoError(t, err)
		assert.Zero(t, size)
		assert.Equal(t, []byte("hello"), store.objects["file.txt"])
	})

	t.Run("upload failure surfaces", func(t *testing.T) {
		store := newFakeStore()
		store.writeErr = &StorageError{Op: "write", Key: "file.txt", Err: errors.New("boom")}
		driver := newQuietDriver(t, store)

		session := driver.BeginWrite("file.txt")
		_, err := session.Write([]byte("hello"))
		require.NoError(t, err)

		_, err = session.Close(ctx)
		var storageErr *StorageError
		assert.ErrorAs(t, err, &storageErr)
	})

	t.Run("failed close can be retried", func(t *testing.T) {
		store := newFakeStore()
		store.writeErr = &StorageError{Op: "write", Key: "file.txt", Err: errors.New("boom")}
		driver := newQuietDriver(t, store)

		session := driver.BeginWrite("file.txt")
		_, err := session.Write([]byte("hello"))
		require.NoError(t, err)

		_, err = session.Close(ctx)
		require.Error(t, err)

		// Backend recovers; the session is still open with its buffer intact
		store.writeErr = nil
		size, err := session.Close(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), size)
		assert.Equal(t, []byte("hello"), store.objects["file.txt"])

		// Now the session is closed for good
		size, err = session.Close(ctx)
		require.NoError(t, err)
		assert.Zero(t, size)
	})

	t.Run("session key strips the base URL", func(t *testing.T) {
		store := newFakeStore()
		driver := newQuietDriver(t, store)

		session := driver.BeginWrite(testBaseURL + "a/file.txt")
		assert.Equal(t, "a/file.txt", session.Key())
	})
}
