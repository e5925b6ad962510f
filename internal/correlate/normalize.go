package correlate

import (
	"path/filepath"
	"slices"
	"strings"
)

// CleanRelative drops every leading ".." component from a path, so that
// build-relative paths like "../../src/foo.c" anchor cleanly under a
// new root.
func CleanRelative(p string) string {
	for {
		switch {
		case p == "..":
			return ""
		case strings.HasPrefix(p, "../"):
			p = p[len("../"):]
		default:
			return p
		}
	}
}

// NormalizePath re-roots a declared source path under basePath. It is a
// pure string transform: no filesystem check is made, and it never
// fails.
//
// With no basePath the declared path is returned unchanged. An absolute
// declared path has the unit's compile-time root (compDir) stripped,
// then any leading remainder components already present at the tail of
// basePath dropped, and the rest joined under basePath: /build/src/foo.c
// with root /build re-roots under /home/me/src as /home/me/src/foo.c,
// not .../src/src/foo.c. A relative declared path is joined under
// basePath directly, with no overlap trimming.
func NormalizePath(declared, compDir, basePath string) string {
	if basePath == "" {
		return declared
	}

	if filepath.IsAbs(declared) {
		rel := strings.TrimPrefix(declared, "/")
		if compDir != "" {
			if r, err := filepath.Rel(compDir, declared); err == nil && r != "." && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
		return filepath.Join(basePath, trimBaseOverlap(rel, basePath))
	}

	return filepath.Join(basePath, CleanRelative(declared))
}

// trimBaseOverlap drops the longest run of leading components of rel
// that duplicates the tail of base, so a base directory that already
// ends in the remainder's first directories is not repeated.
func trimBaseOverlap(rel, base string) string {
	baseParts := strings.Split(strings.Trim(base, "/"), "/")
	relParts := strings.Split(rel, "/")

	max := len(relParts)
	if len(baseParts) < max {
		max = len(baseParts)
	}
	for k := max; k > 0; k-- {
		if slices.Equal(baseParts[len(baseParts)-k:], relParts[:k]) {
			return strings.Join(relParts[k:], "/")
		}
	}
	return rel
}
