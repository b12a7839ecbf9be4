// Package pathutil maps request paths onto route templates and parses the
// numeric ids found in them.
package pathutil

import "strings"

// routes are the templates with dynamic segments. ":id" matches a decimal
// number, ":name" any single segment and a trailing "*" the rest of the path.
var routes = [][]string{
	{"sources", ":id"},
	{"sources", ":id", "error"},
	{"spouts", ":name"},
	{"swagger", "*"},
}

// NormalizePath maps a request path to its route template so metric labels
// and span names stay bounded. The query string and a trailing slash are
// ignored. Paths matching no template come back unchanged.
//
//	NormalizePath("/sources/123")    // "/sources/:id"
//	NormalizePath("/sources/7/")     // "/sources/:id"
//	NormalizePath("/spouts/rss")     // "/spouts/:name"
//	NormalizePath("/health?full=1")  // "/health"
func NormalizePath(path string) string {
	path, _, _ = strings.Cut(path, "?")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	segs := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for _, tmpl := range routes {
		if matches(tmpl, segs) {
			return "/" + strings.Join(tmpl, "/")
		}
	}
	return path
}

func matches(tmpl, segs []string) bool {
	for i, t := range tmpl {
		if t == "*" {
			return i < len(segs) && segs[i] != ""
		}
		if i >= len(segs) {
			return false
		}
		switch t {
		case ":id":
			if !isDigits(segs[i]) {
				return false
			}
		case ":name":
			if segs[i] == "" {
				return false
			}
		default:
			if segs[i] != t {
				return false
			}
		}
	}
	return len(tmpl) == len(segs)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
