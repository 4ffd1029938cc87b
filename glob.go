package s3fs

import (
	"context"
	"iter"
	"strings"

	"github.com/jmgilman/s3fs/internal/globpat"
	"github.com/jmgilman/s3fs/internal/pathutil"
)

// Glob expands a shell-style pattern (*, ?, bracket classes) into a lazy
// sequence of matching absolute paths. The pattern may be absolute or
// storage-relative; yielded paths are always absolute, and directories carry
// a trailing slash.
//
// The sequence is finite and produced fresh per call; each pull performs
// exactly the storage listings needed for the next match, so stopping early
// is safe and leaves no side effects. Matches arrive in the backend's
// listing order. A pattern with no matches (including a parent that is not a
// directory) yields nothing; a listing failure mid-traversal is yielded as
// an error and ends the sequence.
func (d *Driver) Glob(ctx context.Context, pattern string) iter.Seq2[string, error] {
	key := pathutil.ToRelative(d.baseURL, pattern, true)
	return func(yield func(string, error) bool) {
		d.expand(ctx, key, yield)
	}
}

// expand recursively expands one wildcarded segment at a time, yielding
// terminal matches and descending into subtrees for multi-segment patterns.
// It returns false once the consumer stops pulling.
func (d *Driver) expand(ctx context.Context, pattern string, yield func(string, error) bool) bool {
	// Literal path: zero or one result.
	if !globpat.HasMeta(pattern) {
		if d.store.Exists(ctx, pattern) {
			return yield(d.ToAbsolute(pattern), nil)
		}
		return true
	}

	c, err := globpat.Compile(pattern)
	if err != nil {
		return yield("", err)
	}

	// A missing parent is a valid no-match outcome, not an error.
	if c.Parent != "" && !d.store.IsDirectory(ctx, c.Parent) {
		return true
	}

	entries, err := d.store.ListDirectory(ctx, c.Parent)
	if err != nil {
		return yield("", err)
	}

	// The wildcarded segment is terminal when no separator follows it, or
	// when the separator is the pattern's final character.
	terminal := c.SlashIndex < 0 || len(c.Leftover) == c.SlashIndex+1

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name, ".") {
			continue
		}
		if !c.Search.MatchString(entry.Name) {
			continue
		}

		key := pathutil.BuildEntryKey(c.Parent, entry.Name)

		if terminal {
			abs := d.ToAbsolute(key)
			if entry.IsDir {
				abs += "/"
			}
			if !yield(abs, nil) {
				return false
			}
			continue
		}

		// Descend one level and match the remaining pattern against the
		// subtree. Leftover starts with the current segment, so the rest
		// begins at its first separator.
		if !d.expand(ctx, key+c.Leftover[c.SlashIndex:], yield) {
			return false
		}
	}

	return true
}
