// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads page sources from the Scrapbox HTTP API.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/sb2review/internal/book"
	"github.com/pdiddy/sb2review/internal/httputil"
	"github.com/pdiddy/sb2review/pkg/types"
)

// DefaultBaseURL is the public Scrapbox origin.
const DefaultBaseURL = "https://scrapbox.io"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "sb2review"
	pageBatch        = 1000 // largest limit the listing endpoint accepts
	sessionCookie    = "connect.sid"
)

// ErrNotFound is returned when a page or project does not exist or is not
// visible with the configured session.
var ErrNotFound = errors.New("not found")

// Client talks to one Scrapbox project.
type Client struct {
	http      *http.Client
	base      string
	project   string
	sid       string
	userAgent string
	retries   int
}

// NewClient returns a Client for cfg.Project.
func NewClient(cfg types.FetchConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		base:      base,
		project:   cfg.Project,
		sid:       cfg.SID,
		userAgent: ua,
		retries:   cfg.MaxRetries,
	}
}

// PageText returns the raw source of the page titled title.
func (c *Client) PageText(ctx context.Context, title string) (string, error) {
	endpoint := c.base + "/api/pages/" + url.PathEscape(c.project) + "/" + url.PathEscape(title) + "/text"
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("fetching page %q: %w", title, err)
	}
	return string(body), nil
}

// listResponse captures the fields we need from the page listing.
type listResponse struct {
	Count int `json:"count"`
	Pages []struct {
		Title string `json:"title"`
	} `json:"pages"`
}

// ListTitles returns up to limit page titles in the API's default order.
// A limit of 0 lists every page.
func (c *Client) ListTitles(ctx context.Context, limit int) ([]string, error) {
	var titles []string
	for skip := 0; ; {
		n := pageBatch
		if limit > 0 {
			n = min(n, limit-len(titles))
		}
		q := url.Values{}
		q.Set("limit", strconv.Itoa(n))
		q.Set("skip", strconv.Itoa(skip))
		endpoint := c.base + "/api/pages/" + url.PathEscape(c.project) + "?" + q.Encode()

		body, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("listing project %s: %w", c.project, err)
		}
		var resp listResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("parsing page list: %w", err)
		}
		for _, p := range resp.Pages {
			titles = append(titles, p.Title)
		}

		skip += len(resp.Pages)
		if len(resp.Pages) == 0 || skip >= resp.Count || (limit > 0 && len(titles) >= limit) {
			return titles, nil
		}
	}
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.sid != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.sid})
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.retries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("API returned HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// SourcePath returns the file a fetched page is saved to under dir.
func SourcePath(dir, title string) string {
	return filepath.Join(dir, book.SafeName(title)+".txt")
}

// SavePage fetches title and writes it to SourcePath(dir, title).
func (c *Client) SavePage(ctx context.Context, dir, title string) (string, error) {
	text, err := c.PageText(ctx, title)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating pages directory: %w", err)
	}
	path := SourcePath(dir, title)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
