package archive

import (
	"encoding/json"
	"fmt"
	"strings"

	"ghdigest/internal/digest"
)

// envelope is the two-field view of an archived event payload. Exactly one
// of the fields must be present for the row to contribute to the digest.
type envelope struct {
	Issue       *itemMeta `json:"issue"`
	PullRequest *itemMeta `json:"pull_request"`
}

type itemMeta struct {
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
}

// Fold classifies archived payload rows and folds them into a digest. Rows
// carrying neither or both payload variants are skipped; a kept row whose
// URL yields no project fails the run.
func Fold(rows []string, owners digest.OwnerSet) (digest.Digest, error) {
	d := digest.New()
	for _, raw := range rows {
		var ev envelope
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, fmt.Errorf("decode archived event: %w", err)
		}

		var item *itemMeta
		switch {
		case ev.Issue != nil && ev.PullRequest == nil:
			item = ev.Issue
		case ev.Issue == nil && ev.PullRequest != nil:
			item = ev.PullRequest
		default:
			continue
		}

		project, ok := projectFor(item.HTMLURL, owners)
		if !ok {
			return nil, fmt.Errorf("no project for %q", item.HTMLURL)
		}
		d.Add(project, item.HTMLURL, item.Title)
	}
	return d, nil
}

// projectFor derives the grouping key from an item's public web URL: the
// repository name for exception owners, the owner otherwise.
func projectFor(htmlURL string, owners digest.OwnerSet) (string, bool) {
	path, ok := strings.CutPrefix(htmlURL, "https://github.com/")
	if !ok {
		return "", false
	}
	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	owner, repo := parts[0], parts[1]
	if owners.Contains(owner) {
		return repo, true
	}
	return owner, true
}
