package s3fs

import (
	"context"
	"io"
	"sort"
	"strings"
)

// fakeStore is an in-memory ObjectStore with controllable failures.
// Directories exist either as explicit markers or implied by deeper objects,
// matching virtual-directory semantics.
type fakeStore struct {
	objects map[string][]byte
	dirs    map[string]bool

	listErr   map[string]error
	sizeErr   map[string]error
	markerErr error
	writeErr  error
	copyErr   error
	moveErr   error

	markerCalls []string
	copies      [][2]string
	moves       [][2]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string][]byte),
		dirs:    make(map[string]bool),
		listErr: make(map[string]error),
		sizeErr: make(map[string]error),
	}
}

func (f *fakeStore) put(key string, data []byte) {
	f.objects[key] = data
}

func (f *fakeStore) mkdir(key string) {
	f.dirs[key] = true
}

func (f *fakeStore) ListDirectory(_ context.Context, key string) ([]Entry, error) {
	if err := f.listErr[key]; err != nil {
		return nil, err
	}

	prefix := ""
	if key != "" {
		prefix = key + "/"
	}

	seen := make(map[string]bool)
	var entries []Entry
	add := func(name string, isDir bool) {
		if seen[name] {
			return
		}
		seen[name] = true
		entries = append(entries, Entry{Name: name, IsDir: isDir})
	}

	for o := range f.objects {
		if !strings.HasPrefix(o, prefix) {
			continue
		}
		rest := strings.TrimPrefix(o, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			add(rest[:i], true)
		} else {
			add(rest, false)
		}
	}
	for d := range f.dirs {
		if !strings.HasPrefix(d, prefix) || d == key {
			continue
		}
		rest := strings.TrimPrefix(d, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			add(rest[:i], true)
		} else {
			add(rest, true)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (f *fakeStore) IsDirectory(_ context.Context, key string) bool {
	if key == "" || key == "." {
		return true
	}
	if f.dirs[key] {
		return true
	}
	prefix := key + "/"
	for o := range f.objects {
		if strings.HasPrefix(o, prefix) {
			return true
		}
	}
	for d := range f.dirs {
		if strings.HasPrefix(d, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeStore) Exists(ctx context.Context, key string) bool {
	if _, ok := f.objects[key]; ok {
		return true
	}
	return f.IsDirectory(ctx, key)
}

func (f *fakeStore) CreateDirectoryMarker(_ context.Context, key string, _ ObjectConfig) error {
	f.markerCalls = append(f.markerCalls, key)
	if f.markerErr != nil {
		return f.markerErr
	}
	f.dirs[key] = true
	return nil
}

func (f *fakeStore) Write(_ context.Context, key string, data []byte, _ ObjectConfig) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) WriteStream(_ context.Context, key string, r io.Reader, _ int64, _ ObjectConfig) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) FileSize(_ context.Context, key string) (int64, error) {
	if err := f.sizeErr[key]; err != nil {
		return 0, err
	}
	data, ok := f.objects[key]
	if !ok {
		return 0, &MetadataError{Key: key, Err: ErrNotFound}
	}
	return int64(len(data)), nil
}

func (f *fakeStore) Copy(_ context.Context, src, dst string, _ ObjectConfig) error {
	f.copies = append(f.copies, [2]string{src, dst})
	if f.copyErr != nil {
		return f.copyErr
	}
	f.objects[dst] = f.objects[src]
	return nil
}

func (f *fakeStore) Move(_ context.Context, src, dst string, _ ObjectConfig) error {
	f.moves = append(f.moves, [2]string{src, dst})
	if f.moveErr != nil {
		return f.moveErr
	}
	f.objects[dst] = f.objects[src]
	delete(f.objects, src)
	return nil
}

var _ ObjectStore = (*fakeStore)(nil)
