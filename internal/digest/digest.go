// Package digest holds the event-to-report fold: normalized items, project
// routing, URL canonicalization, aggregation and rendering.
package digest

import (
	"fmt"
	"sort"
	"strings"
)

// Item is one normalized activity record extracted from an event payload.
type Item struct {
	NodeID string
	URL    string
	Title  string
}

// DefaultOwners is the built-in ownership exception list: repositories under
// these owners are grouped by repository name instead of by owner.
var DefaultOwners = []string{"djc", "nicoburns", "seanmonstar", "rust-lang", "hyperium"}

// OwnerSet is an immutable lookup table of exception owners.
type OwnerSet map[string]struct{}

// NewOwnerSet builds an OwnerSet from a list of owner logins.
func NewOwnerSet(owners ...string) OwnerSet {
	s := make(OwnerSet, len(owners))
	for _, o := range owners {
		s[o] = struct{}{}
	}
	return s
}

// Contains reports whether owner is in the exception set.
func (s OwnerSet) Contains(owner string) bool {
	_, ok := s[owner]
	return ok
}

// ProjectKey maps a repository full name (owner/repo) to its grouping key:
// the repository name for exception owners, the full name otherwise.
func ProjectKey(fullName string, owners OwnerSet) (string, error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" {
		return "", fmt.Errorf("malformed repository name %q", fullName)
	}
	if owners.Contains(owner) {
		return repo, nil
	}
	return fullName, nil
}

// Digest maps a project key to its deduplicated url -> title entries.
type Digest map[string]map[string]string

// New returns an empty digest.
func New() Digest {
	return make(Digest)
}

// Add records an item under a project. A later title overwrites an earlier
// one for the same URL.
func (d Digest) Add(project, url, title string) {
	items, ok := d[project]
	if !ok {
		items = make(map[string]string)
		d[project] = items
	}
	items[url] = title
}

// Projects returns the project keys in sorted order.
func (d Digest) Projects() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
