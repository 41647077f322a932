package digest

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"ghdigest/internal/platform/logger"
)

const (
	apiRepoPrefix = "https://api.github.com/repos/"
	publicPrefix  = "https://github.com/"
)

// URLResolver maps a stored item URL to the form written in the report.
// Returning false drops the item from the output.
type URLResolver func(url string) (string, bool)

// Verbatim passes stored URLs through unchanged.
func Verbatim(url string) (string, bool) {
	return url, true
}

// PublicURL rewrites API-host repository paths back to the public web host.
// URLs already on the public host pass through; anything else is dropped.
func PublicURL(url string) (string, bool) {
	if rest, ok := strings.CutPrefix(url, apiRepoPrefix); ok {
		return publicPrefix + rest, true
	}
	if strings.HasPrefix(url, publicPrefix) {
		return url, true
	}
	return "", false
}

// Render writes the digest as a reStructuredText list: per project a heading,
// an underline of equal length, a blank line, one bullet per item and a
// trailing blank line. Projects and items come out in sorted order.
func Render(w io.Writer, d Digest, resolve URLResolver) error {
	log := logger.Named("render")
	for _, project := range d.Projects() {
		underline := strings.Repeat("=", utf8.RuneCountInString(project))
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", project, underline); err != nil {
			return err
		}

		items := d[project]
		urls := make([]string, 0, len(items))
		for url := range items {
			urls = append(urls, url)
		}
		sort.Strings(urls)

		for _, url := range urls {
			resolved, ok := resolve(url)
			if !ok {
				log.Warn().Str("url", url).Str("project", project).Msg("skipping item with unresolvable url")
				continue
			}
			if _, err := fmt.Fprintf(w, "* `%s <%s>`_\n", items[url], resolved); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
