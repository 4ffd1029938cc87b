// Package globpat compiles a single wildcarded segment of a glob pattern
// into a regular expression, together with the literal parent directory that
// must be listed and the leftover pattern that still needs expansion.
//
// Supported glob syntax is *, ? and bracket character classes. Regex bracket
// syntax is compatible with glob bracket syntax for this engine's purposes,
// so classes pass through untranslated.
package globpat

import (
	"fmt"
	"regexp"
	"strings"
)

// metaRe locates the first glob metacharacter: *, ? or a bracket class.
var metaRe = regexp.MustCompile(`\*|\?|\[[^\]]*\]`)

// Compiled is the result of splitting a glob pattern at its first
// wildcarded segment.
type Compiled struct {
	// Parent is the longest literal prefix of the pattern, truncated to the
	// last path separator before the first metacharacter. Empty for patterns
	// whose first segment is wildcarded.
	Parent string

	// Search matches entry names against the wildcarded segment. It is
	// anchored at the end only; a prefix before the segment is accepted.
	Search *regexp.Regexp

	// Leftover is the pattern from the first metacharacter onward.
	Leftover string

	// SlashIndex is the offset of the first "/" inside Leftover, or -1 when
	// the wildcarded segment runs to the end of the pattern.
	SlashIndex int
}

// HasMeta reports whether the pattern contains a glob metacharacter. An
// unterminated bracket class is not a metacharacter; a pattern whose only
// candidate is a bare "[" is treated as a literal path.
func HasMeta(pattern string) bool {
	return metaRe.MatchString(pattern)
}

// Compile splits pattern at its first wildcarded segment. The pattern must
// contain at least one metacharacter.
func Compile(pattern string) (Compiled, error) {
	loc := metaRe.FindStringIndex(pattern)
	if loc == nil {
		return Compiled{}, fmt.Errorf("pattern %q contains no glob metacharacter", pattern)
	}
	metaOffset := loc[0]

	parent := ""
	if i := strings.LastIndex(pattern[:metaOffset], "/"); i >= 0 {
		parent = pattern[:i]
	}

	leftover := pattern[metaOffset:]
	slashIndex := strings.Index(leftover, "/")

	// Isolate the wildcarded segment: from just past the parent's separator
	// up to (but excluding) the next separator, or to the end of the pattern.
	segStart := 0
	if parent != "" {
		segStart = len(parent) + 1
	}
	var segment string
	if slashIndex >= 0 {
		segment = pattern[segStart : metaOffset+slashIndex]
	} else {
		segment = pattern[segStart:]
	}

	search, err := regexp.Compile(translate(segment) + "$")
	if err != nil {
		return Compiled{}, fmt.Errorf("compile glob segment %q: %w", segment, err)
	}

	return Compiled{
		Parent:     parent,
		Search:     search,
		Leftover:   leftover,
		SlashIndex: slashIndex,
	}, nil
}

// translate converts one glob segment to regex syntax: * → .*, ? → .,
// / → \/, bracket classes pass through, all other regex specials escaped.
func translate(segment string) string {
	var b strings.Builder
	inClass := false
	for _, r := range segment {
		switch {
		case inClass:
			b.WriteRune(r)
			if r == ']' {
				inClass = false
			}
		case r == '[':
			b.WriteRune(r)
			inClass = true
		case r == '*':
			b.WriteString(".*")
		case r == '?':
			b.WriteString(".")
		case r == '/':
			b.WriteString(`\/`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
