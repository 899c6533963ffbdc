package entangld

import "strings"

// Split turns a dotted path into its segments. The empty path yields no
// segments. Segments are never empty strings — "a..b" is not a valid
// path, but Split does not itself validate; callers that need validation
// use validatePath.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Join is the inverse of Split.
func Join(segments []string) string {
	return strings.Join(segments, ".")
}

// IsBeneath reports whether a is beneath b: b is empty, a equals b, or a
// extends b by one or more whole segments. This is a segment-wise prefix
// test, never a character prefix — "ab" is not beneath "a".
func IsBeneath(a string, b string) bool {
	if b == "" {
		return true
	}
	if a == b {
		return true
	}
	return strings.HasPrefix(a, b+".")
}

// TrimPrefix removes the leading namespace segment(s) of prefix from
// path, returning the residual path. path must already satisfy
// IsBeneath(path, prefix). TrimPrefix("a.b.c", "a.b") is "c";
// TrimPrefix("a.b", "a.b") is "".
func TrimPrefix(path string, prefix string) string {
	if prefix == "" {
		return path
	}
	if path == prefix {
		return ""
	}
	return strings.TrimPrefix(path, prefix+".")
}

// validatePath rejects paths with empty segments, e.g. "a..b" or ".a" or
// "a.".  The empty path itself (the root) is always valid.
func validatePath(path string) bool {
	if path == "" {
		return true
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

// resolveResult is the outcome of walking a tree along a path.
type resolveResult struct {
	node      *node
	remaining string
	found     bool
}

// resolve walks tree along path, segment by segment. If a callable leaf
// is encountered before the path is exhausted, it stops there and
// returns the callable plus whatever path remains unconsumed — the
// caller is responsible for invoking the callable and continuing
// resolution into its result. If a segment is missing, found is false
// and remaining is "". On a clean, full walk, found is true and
// remaining is "".
func resolve(tree *node, path string) resolveResult {
	segments := Split(path)
	cur := tree
	for i, seg := range segments {
		if cur.kind == nodeCallable {
			return resolveResult{
				node:      cur,
				remaining: Join(segments[i:]),
				found:     true,
			}
		}
		if cur.kind != nodeMap {
			return resolveResult{found: false}
		}
		next, ok := cur.children[seg]
		if !ok {
			return resolveResult{found: false}
		}
		cur = next
	}
	return resolveResult{node: cur, remaining: "", found: true}
}
