package digest

import "strings"

// Canonicalize rewrites API path aliases in an item's URL to the public web
// path form. At most one segment is rewritten, and applying it again is a
// no-op because neither alias survives the rewrite.
func Canonicalize(item Item) Item {
	switch {
	case strings.Contains(item.URL, "/issues/") && strings.HasPrefix(item.NodeID, "PR_"):
		// a pull request reported through the issues endpoint
		item.URL = strings.Replace(item.URL, "/issues/", "/pull/", 1)
	case strings.Contains(item.URL, "/pulls/"):
		item.URL = strings.Replace(item.URL, "/pulls/", "/pull/", 1)
	}
	return item
}
