// Package bigquery is a minimal client for the BigQuery jobs.query endpoint,
// shaped for the githubarchive monthly dataset.
package bigquery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"ghdigest/internal/platform/logger"
)

const (
	baseURLDefault = "https://bigquery.googleapis.com/bigquery/v2"
	defaultTimeout = 2 * time.Minute

	// Scope is the OAuth scope required for jobs.query.
	Scope = "https://www.googleapis.com/auth/bigquery"
)

// Options configures the Client
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	TokenSource oauth2.TokenSource
}

// Client issues warehouse queries over plain HTTP with a bearer token.
type Client struct {
	http *http.Client
	opts Options
	log  zerolog.Logger
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("bigquery"),
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Rows []row `json:"rows"`
}

type row struct {
	F []field `json:"f"`
}

type field struct {
	V string `json:"v"`
}

// MonthEvents runs the archive query for one month of a user's public events
// and returns the raw payload strings in created_at order. Every row must be
// exactly one column wide.
func (c *Client) MonthEvents(ctx context.Context, project, month, user string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT payload FROM githubarchive.month.%s WHERE actor.login = '%s' ORDER BY created_at",
		month, user,
	)
	c.log.Info().Str("month", month).Str("user", user).Str("project", project).Msg("querying warehouse")

	body, err := json.Marshal(queryRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("encode query request: %w", err)
	}

	url := fmt.Sprintf("%s/projects/%s/queries", c.opts.BaseURL, project)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	tok, err := c.opts.TokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("obtain bigquery token: %w", err)
	}
	tok.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("query failed (status %d): %s", resp.StatusCode, tail)
	}

	var result queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}

	events := make([]string, 0, len(result.Rows))
	for i, r := range result.Rows {
		if len(r.F) != 1 {
			return nil, fmt.Errorf("row %d has %d columns, want 1", i, len(r.F))
		}
		events = append(events, r.F[0].V)
	}

	c.log.Info().Int("rows", len(events)).Msg("warehouse query done")
	return events, nil
}
