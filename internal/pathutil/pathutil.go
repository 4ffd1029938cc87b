// Package pathutil provides path normalization and manipulation utilities
// for S3 object keys and their externally visible absolute forms.
package pathutil

import (
	"path/filepath"
	"strings"
)

// Normalize cleans a path and ensures forward slashes.
// It applies: ToSlash → Clean → Trim slashes
// Returns "." for empty paths.
func Normalize(path string) string {
	if path == "" {
		return "."
	}

	// First convert backslashes to forward slashes (for Windows-style paths)
	path = strings.ReplaceAll(path, "\\", "/")

	// Clean the path (resolves . and ..)
	path = filepath.Clean(path)

	// Convert to forward slashes again (filepath.Clean may use OS separator)
	path = filepath.ToSlash(path)

	// Trim leading and trailing slashes
	path = strings.Trim(path, "/")

	// Return "." if path is now empty
	if path == "" {
		return "."
	}

	return path
}

// NormalizePrefix normalizes a key prefix:
// - Converts backslashes to forward slashes
// - Removes leading and trailing slashes
// - Returns empty string if prefix is "." or empty.
func NormalizePrefix(prefix string) string {
	if prefix == "" || prefix == "." {
		return ""
	}

	prefix = strings.ReplaceAll(prefix, "\\", "/")
	prefix = filepath.Clean(prefix)
	prefix = filepath.ToSlash(prefix)
	prefix = strings.Trim(prefix, "/")

	return prefix
}

// NormalizeBaseURL ensures the configured object base URL carries exactly one
// trailing slash, so absolute paths are always base + key.
func NormalizeBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/"
}

// ToRelative strips the base URL from an absolute path, producing a
// storage-relative key. When fix is set, leading and trailing slashes are
// trimmed as well. The transform is pure and never fails; a path that does
// not carry the base URL passes through unchanged.
func ToRelative(baseURL, path string, fix bool) string {
	path = strings.TrimPrefix(path, baseURL)
	if fix {
		path = strings.Trim(path, "/")
	}
	return path
}

// ToAbsolute prepends the base URL to a relative key. Any base URL the input
// already carries is stripped first, so repeated application is idempotent
// and keys are never double-prefixed.
func ToAbsolute(baseURL, key string) string {
	key = strings.TrimPrefix(key, baseURL)
	return baseURL + strings.TrimLeft(key, "/")
}

// Parent returns the directory portion of a relative key, or "" for a
// top-level key. Keys use forward slashes only.
func Parent(key string) string {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return ""
	}
	return key[:i]
}

// JoinPath joins a prefix with a name to create a full S3 key.
// It handles empty prefix correctly and uses forward slashes.
func JoinPath(prefix, name string) string {
	name = Normalize(name)

	// Handle special case where normalized name is "."
	if name == "." {
		if prefix == "" {
			return ""
		}
		return prefix
	}

	if prefix == "" {
		return name
	}

	return prefix + "/" + name
}

// BuildEntryKey constructs the S3 key for an entry given its parent key and name.
func BuildEntryKey(parentKey, entryName string) string {
	if parentKey != "" {
		return parentKey + "/" + entryName
	}
	return entryName
}
