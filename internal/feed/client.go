// Package feed pages through the live GitHub public events feed and folds a
// month window of events into a digest.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"ghdigest/internal/platform/logger"
)

const (
	baseURLDefault = "https://api.github.com"
	defaultTimeout = 30 * time.Second
	defaultUA      = "ghdigest"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Token is an optional bearer token; empty means unauthenticated,
	// which caps how far back the feed pages.
	Token string
}

// Client fetches feed pages one at a time, following Link headers.
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     *logger.Named("feed"),
	}
}

// Envelope is the outer event format the public feed returns per element.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Repo      Repo            `json:"repo"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Repo is the repository the event occurred in
type Repo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"` // owner/repo
}

// CollectWindow pages through a user's public events and returns those inside
// [start, end), oldest first. The feed is reverse-chronological, so paging
// stops after the first page carrying an event older than start; running out
// of Link headers (feed end or unauthenticated page cap) also ends the walk.
func (c *Client) CollectWindow(ctx context.Context, user string, start, end time.Time) ([]Envelope, error) {
	next := fmt.Sprintf("%s/users/%s/events/public", c.opts.BaseURL, user)

	var window []Envelope
	for next != "" {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, link, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}

		pastWindow := false
		for _, ev := range page {
			switch {
			case ev.CreatedAt.Before(start):
				pastWindow = true
			case ev.CreatedAt.Before(end):
				window = append(window, ev)
			default:
				// newer than the window, keep paging
			}
		}
		if pastWindow {
			break
		}
		next = link
	}

	// oldest first so the newest title wins the fold
	slices.Reverse(window)
	return window, nil
}

func (c *Client) fetchPage(ctx context.Context, url string) ([]Envelope, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, "", fmt.Errorf("feed unexpected status %d for %s: %s", resp.StatusCode, url, tail)
	}

	var page []Envelope
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("decode feed page: %w", err)
	}

	next := nextLink(resp.Header.Get("Link"))
	c.log.Debug().Str("url", url).Int("events", len(page)).Bool("has_next", next != "").Msg("fetched feed page")
	return page, next, nil
}

// nextLink extracts the rel="next" URL from a Link header value. The header
// is a comma separated list of `<url>; rel="name"` segments.
func nextLink(header string) string {
	for _, seg := range strings.Split(header, ", ") {
		url, params, ok := strings.Cut(seg, ";")
		if !ok {
			continue
		}
		url = strings.TrimSpace(url)
		if !strings.HasPrefix(url, "<") || !strings.HasSuffix(url, ">") {
			continue
		}
		for _, p := range strings.Split(params, ";") {
			if strings.TrimSpace(p) == `rel="next"` {
				return strings.Trim(url, "<>")
			}
		}
	}
	return ""
}
